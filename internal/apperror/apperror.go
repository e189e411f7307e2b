// Package apperror defines the domain error taxonomy shared by the service
// and handler layers. Services return these; the HTTP layer maps them to
// status codes in one place (handler.writeError).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage error")
	ErrUpstream     = errors.New("upstream error")
)

type AppError struct {
	Err     error  // sentinel category (one of the Err* values above)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Details string // Optional: upstream diagnostic payload, passed through verbatim
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized covers every authentication failure: missing or bad token,
// unknown user, wrong password. The message distinguishes them; the HTTP
// status (401) does not.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Storage wraps a persistence failure. The underlying driver error stays out
// of the message so it never leaks to clients; callers log it separately.
func Storage(message string) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: message,
	}
}

// Upstream wraps a failure from the external generation API. details carries
// whatever diagnostic body the upstream returned.
func Upstream(message, details string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
		Details: details,
	}
}
