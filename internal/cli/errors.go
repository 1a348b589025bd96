// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/uniconnect/uniconnect-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

// Exit codes. Usage covers bad arguments and failed input checks, auth a
// missing or expired session, network a failure before the backend answered
// and request a non-2xx answer.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitNetworkError = 5
	ExitRequestError = 6
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed subcommand with the action it was performing.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError is a bad command-line value.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += "\nExample: " + e.Example
	}
	return msg
}

// ConfigError wraps a configuration load or validation failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrNotLoggedIn is returned by commands that need a session.
	ErrNotLoggedIn = errors.New("not logged in; run `uniconnect login` first")

	// ErrSessionExpired ends an interactive command after the backend
	// rejected the session.
	ErrSessionExpired = errors.New("session expired")
)

const expiredMessage = "Your session has expired. Please log in again."

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewCommandError wraps err with the failing command and action.
func NewCommandError(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// NewValidationError reports a bad value.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(name, usage string) error {
	return &ValidationError{Field: name, Reason: "required argument missing", Example: usage}
}

// ErrUnsupportedFormat reports an unknown output format.
func ErrUnsupportedFormat(format string, supported []string) error {
	return &ValidationError{
		Field:   "format",
		Value:   format,
		Reason:  "unsupported format",
		Example: fmt.Sprintf("supported formats: %v", supported),
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// GetExitCode maps an error to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return ExitUsageError
	}
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return ExitConfigError
	}
	if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, ErrSessionExpired) {
		return ExitAuthError
	}

	var aerr *api.Error
	if errors.As(err, &aerr) {
		switch aerr.Kind {
		case api.KindUnauthorized:
			return ExitAuthError
		case api.KindValidation:
			return ExitUsageError
		case api.KindTransport:
			return ExitNetworkError
		case api.KindRequestFailed, api.KindDecode:
			return ExitRequestError
		}
	}
	return ExitGeneralError
}

// DisplayError writes err to w, as JSON when jsonMode is set.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		out := map[string]any{
			"error":     err.Error(),
			"success":   false,
			"exit_code": GetExitCode(err),
		}
		var aerr *api.Error
		if errors.As(err, &aerr) {
			out["kind"] = aerr.Kind.String()
			if aerr.Status != 0 {
				out["status"] = aerr.Status
			}
			if aerr.RequestID != "" {
				out["request_id"] = aerr.RequestID
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	msg := err.Error()
	if api.IsUnauthorized(err) || errors.Is(err, ErrSessionExpired) {
		msg = expiredMessage
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), msg)
}
