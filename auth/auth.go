// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// IssueToken creates a signed bearer token for a user.
// Tokens are deterministic for a given user and secret.
func IssueToken(userID int64, secret string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
	return payload + "." + sign(payload, secret)
}

// VerifyToken checks the signature and returns the user id.
func VerifyToken(token, secret string) (int64, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return 0, ErrInvalidToken
	}

	expected := sign(payload, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return 0, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// sign returns the URL-safe HMAC-SHA256 of payload
func sign(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
