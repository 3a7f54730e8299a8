package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
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
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
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

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// InvalidTransitionError reports a status change rejected by the transition
// table. Current is nil when the peripheral had no status assigned yet
// (which only happens for an invalid requested value; initial assignment
// of a valid status is always permitted).
type InvalidTransitionError struct {
	Current   *PeripheralStatus
	Requested PeripheralStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Current == nil {
		return fmt.Sprintf("invalid transition: status %q is not a valid target", e.Requested)
	}
	return fmt.Sprintf("invalid transition: %s → %s is not permitted", *e.Current, e.Requested)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
