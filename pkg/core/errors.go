// Package core defines the canonical error taxonomy shared by the SDK,
// the session controller, and the audio adapter.
package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error carried across package boundaries.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`

	// Status is the HTTP status code for server errors, zero otherwise.
	Status int `json:"status,omitempty"`

	// RequestID echoes the X-Request-ID of the failing call when known.
	RequestID string `json:"request_id,omitempty"`

	underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Type, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.underlying
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrPermissionDenied means the platform refused microphone access.
	ErrPermissionDenied ErrorType = "permission_denied"
	// ErrDeviceUnavailable means no usable capture device exists.
	ErrDeviceUnavailable ErrorType = "device_unavailable"
	// ErrNetworkFailure means the request produced no HTTP response
	// (connectivity, DNS, timeout).
	ErrNetworkFailure ErrorType = "network_failure"
	// ErrServerError means the backend answered with a non-2xx status.
	ErrServerError ErrorType = "server_error"
	// ErrValidationError means client-side input was rejected before any
	// network call was made.
	ErrValidationError ErrorType = "validation_error"
)

// NewPermissionDeniedError creates a permission denied error.
func NewPermissionDeniedError(message string) *Error {
	return &Error{Type: ErrPermissionDenied, Message: message}
}

// NewDeviceUnavailableError creates a device unavailable error wrapping the
// platform failure.
func NewDeviceUnavailableError(message string, underlying error) *Error {
	return &Error{Type: ErrDeviceUnavailable, Message: message, underlying: underlying}
}

// NewNetworkFailureError creates a network failure error wrapping the
// transport failure.
func NewNetworkFailureError(message string, underlying error) *Error {
	return &Error{Type: ErrNetworkFailure, Message: message, underlying: underlying}
}

// NewServerError creates a server error from a non-2xx response.
func NewServerError(status int, message string) *Error {
	return &Error{Type: ErrServerError, Message: message, Status: status}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *Error {
	return &Error{Type: ErrValidationError, Message: message}
}

// IsType reports whether err is (or wraps) a canonical error of type t.
func IsType(err error, t ErrorType) bool {
	var coreErr *Error
	if !errors.As(err, &coreErr) || coreErr == nil {
		return false
	}
	return coreErr.Type == t
}
