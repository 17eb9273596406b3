package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")

	// ErrReferenceDataUnavailable means the allergen/disease/sweetener/rule
	// tables could not be loaded. This is fatal for an evaluation: returning
	// empty warnings instead would be indistinguishable from "genuinely safe".
	ErrReferenceDataUnavailable = errors.New("reference data unavailable")

	// ErrProfileUnavailable means the profile store could not be reached.
	// The engine degrades to an empty profile; callers only see this error
	// wrapped in logs, never as a request failure.
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
