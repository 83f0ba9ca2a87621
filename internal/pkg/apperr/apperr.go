// internal/pkg/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the HTTP layer and the caller
type Kind int

const (
	// KindValidation means a client-side guard rejected the operation; no network call was made
	KindValidation Kind = iota
	// KindTransport means the upstream was unreachable or answered non-2xx
	KindTransport
	// KindAuth means the stored credential is missing, expired or rejected
	KindAuth
	// KindNotFound means the requested entity does not exist upstream
	KindNotFound
)

// Error is a recoverable failure surfaced to the caller.
// Aggregate operations never produce one for expected conditions (absence, clamping).
type Error struct {
	Kind    Kind
	Message string
	Status  int // upstream HTTP status, 0 when no response was received
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is / errors.As chains
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation failure
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Transport creates a transport failure
func Transport(message string, status int, err error) *Error {
	return &Error{Kind: KindTransport, Message: message, Status: status, Err: err}
}

// Auth creates an authentication failure
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message, Status: 401}
}

// NotFound creates a not-found failure
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: 404}
}

// KindOf extracts the failure kind, defaulting to transport for untyped errors
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindTransport
}

// MessageOf extracts the human-readable message for notifications
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Something went wrong"
}
