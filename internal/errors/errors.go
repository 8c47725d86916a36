// Package errors provides typed errors for the REST façade.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error cases.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates a request validation error.
	ErrValidation = errors.New("validation error")

	// ErrUnavailable indicates the brokerage session is not ready.
	ErrUnavailable = errors.New("session unavailable")

	// ErrUpstream indicates the brokerage rejected or failed the call.
	ErrUpstream = errors.New("upstream error")

	// ErrInternal indicates an internal server error.
	ErrInternal = errors.New("internal error")

	// ErrRateLimit indicates too many requests.
	ErrRateLimit = errors.New("rate limit exceeded")
)

// AppError is a structured application error.
type AppError struct {
	// Type is the error type (sentinel error).
	Type error
	// Message is the client-facing error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error type.
func (e *AppError) Unwrap() error {
	return e.Type
}

// Is checks if this error matches the target.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Type: ErrValidation, Message: message}
}

// Unavailable creates a session-unavailable error.
func Unavailable(message string) *AppError {
	if message == "" {
		message = "brokerage session not initialized"
	}
	return &AppError{Type: ErrUnavailable, Message: message}
}

// Upstream wraps a brokerage client error.
func Upstream(cause error) *AppError {
	return &AppError{Type: ErrUpstream, Message: "brokerage request failed", Cause: cause}
}

// Internal creates an internal error.
func Internal(message string, cause error) *AppError {
	return &AppError{Type: ErrInternal, Message: message, Cause: cause}
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrUnavailable):
		return 503
	case errors.Is(err, ErrUpstream):
		return 400
	case errors.Is(err, ErrRateLimit):
		return 429
	default:
		return 500
	}
}
