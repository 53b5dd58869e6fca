// Package apperror defines the application error taxonomy shared by the
// service and handler layers.
//
// Validation and auth failures are local: they never reach the network and
// render inline. Remote failures (HTTP status, transport) carry their own
// types in the helpdesk client package; handlers map everything to a visible,
// dismissible UI state. No error here is fatal to the process.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrAuthRequired = errors.New("authentication required")
)

type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable error message
	Field   string // optional: form field causing the error
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

// AuthRequired marks a mutating action attempted without a session. Handlers
// surface it as a local notice; it never redirects on its own.
func AuthRequired(message string) *AppError {
	return &AppError{
		Err:     ErrAuthRequired,
		Message: message,
	}
}
