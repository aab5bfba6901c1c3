// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// ErrNotApplied marks a rejected-input outcome: the operation was not
// applied and nothing changed.
var ErrNotApplied = errors.New("not applied")

var (
	ErrNotFound = fmt.Errorf("%w: not found", ErrNotApplied)
	ErrInvalid  = fmt.Errorf("%w: invalid input", ErrNotApplied)
)

// Invalidf wraps ErrInvalid with a detail message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// PermissionDeniedError is returned when the caller's role lacks a capability.
type PermissionDeniedError struct {
	Detail string
}

func (e *PermissionDeniedError) Error() string {
	return "permission denied: " + e.Detail
}

// Denied builds a PermissionDeniedError.
func Denied(format string, args ...any) error {
	return &PermissionDeniedError{Detail: fmt.Sprintf(format, args...)}
}

// RuleViolationError is returned when a mutation conflicts with a business rule.
type RuleViolationError struct {
	Detail string
}

func (e *RuleViolationError) Error() string {
	return "business rule violation: " + e.Detail
}

// Violation builds a RuleViolationError.
func Violation(format string, args ...any) error {
	return &RuleViolationError{Detail: fmt.Sprintf(format, args...)}
}

// IsPermissionDenied reports whether err is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var pd *PermissionDeniedError
	return errors.As(err, &pd)
}

// IsRuleViolation reports whether err is a RuleViolationError.
func IsRuleViolation(err error) bool {
	var rv *RuleViolationError
	return errors.As(err, &rv)
}
