package errors

import (
	"errors"
	"fmt"
)

// Kind classifies application errors so callers can map them to
// field-level messages without string matching.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAccountLocked Kind = "account_locked"
	KindWrongPassword Kind = "wrong_password"
	KindUnauthorized  Kind = "unauthorized"
	KindStorage       Kind = "storage"
)

// AppError is the structured error surfaced across the library boundary.
// Field names the form field a validation failure belongs to, when known.
type AppError struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches on Kind so sentinel comparisons work across copies.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e != nil && other != nil && e.Kind == other.Kind
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrNotFound = &AppError{
		Kind:    KindNotFound,
		Message: "Resource not found",
	}
	ErrUnauthorized = &AppError{
		Kind:    KindUnauthorized,
		Message: "Authentication required",
	}
	ErrStorage = &AppError{
		Kind:    KindStorage,
		Message: "Storage operation failed",
	}
)

// NewValidation builds a validation error bound to a form field.
func NewValidation(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Field: field, Message: message}
}

// NewNotFound builds a not-found error with a resource specific message.
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewConflict builds a conflict error, e.g. a duplicate unique key.
func NewConflict(field, message string) *AppError {
	return &AppError{Kind: KindConflict, Field: field, Message: message}
}

// NewStorage wraps a low-level storage failure.
func NewStorage(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Internal: err}
}

// FromError converts a generic error into an AppError, defaulting to storage.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrStorage.WithInternal(err)
}
