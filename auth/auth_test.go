// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestIssueToken(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		secret string
	}{
		{"standard", 42, "secret"},
		{"large id", 9007199254740993, "secret"},
		{"empty secret", 7, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := IssueToken(tt.userID, tt.secret)

			// Should be deterministic
			if token != IssueToken(tt.userID, tt.secret) {
				t.Error("IssueToken() is not deterministic")
			}

			// Should be URL-safe
			if strings.ContainsAny(token, "+/=") {
				t.Errorf("IssueToken() contains non URL-safe characters: %s", token)
			}

			got, err := VerifyToken(token, tt.secret)
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if got != tt.userID {
				t.Errorf("Expected user %d, got %d", tt.userID, got)
			}
		})
	}

	if IssueToken(1, "s") == IssueToken(2, "s") {
		t.Error("IssueToken() produced same token for different users")
	}
}

func TestVerifyToken_Invalid(t *testing.T) {
	valid := IssueToken(5, "secret")
	payload, _, _ := strings.Cut(valid, ".")
	forged := IssueToken(6, "other-secret")
	forgedPayload, _, _ := strings.Cut(forged, ".")
	_, validSig, _ := strings.Cut(valid, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "abc"},
		{"empty signature", payload + "."},
		{"wrong secret", forged},
		{"swapped payload", forgedPayload + "." + validSig},
		{"tampered signature", valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, "secret"); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc.def", "abc.def", false},
		{"  Bearer   abc.def ", "abc.def", false},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr {
			if !errors.Is(err, ErrMissingToken) {
				t.Errorf("%q: Expected ErrMissingToken, got %v", tt.header, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: Expected %q, got %q (err=%v)", tt.header, tt.want, got, err)
		}
	}
}
