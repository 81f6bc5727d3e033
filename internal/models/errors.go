package models

import "errors"

// Error kinds. Every error surfaced by the services unwraps to one of these.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrConsistency = errors.New("consistency violation")
)

// Error is a user-visible failure of a known kind.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
