// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Kind classifies a gateway failure.
type Kind int

const (
	// KindRequestFailed is any non-2xx status other than 401.
	KindRequestFailed Kind = iota

	// KindUnauthorized is a 401. The session has already been cleared.
	KindUnauthorized

	// KindValidation is a client-side check that blocked the call.
	KindValidation

	// KindTransport is a network-level failure before any status arrived.
	KindTransport

	// KindDecode is a 2xx whose body could not be decoded.
	KindDecode
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the normalized failure returned by the gateway. Message is
// suitable for a user-facing notification.
type Error struct {
	Kind      Kind
	Status    int
	Message   string
	RequestID string
	Cause     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind. A target with a non-zero
// Status also has to match the status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// ErrUnauthorized matches every 401 failure.
var ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}

// Validation returns a client-side validation failure. No request is made.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// IsUnauthorized reports whether err is a 401 failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// Message returns the user-facing message of err, or fallback when err is
// not a gateway error or carries no message.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
