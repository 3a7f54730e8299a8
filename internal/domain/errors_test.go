package domain

import (
	"errors"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("status", "required")

	if got := err.Error(); got != "validation: status: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "status", Message: "required"},
		{Field: "peripheral_ids", Message: "at least one required"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation,
		ErrUnauthorized, ErrForbidden, ErrInvalidTransition,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}

func TestInvalidTransitionError_Message(t *testing.T) {
	t.Parallel()

	from := PeripheralStatusFaulty
	err := &InvalidTransitionError{Current: &from, Requested: PeripheralStatusUnplugged}
	if got := err.Error(); got != "invalid transition: faulty → unplugged is not permitted" {
		t.Fatalf("unexpected Error(): %q", got)
	}

	nilCurrent := &InvalidTransitionError{Requested: PeripheralStatus("broken")}
	if got := nilCurrent.Error(); got != `invalid transition: status "broken" is not a valid target` {
		t.Fatalf("unexpected Error(): %q", got)
	}
}

func TestInvalidTransitionError_Unwrap(t *testing.T) {
	t.Parallel()

	from := PeripheralStatusConnected
	var err error = &InvalidTransitionError{Current: &from, Requested: PeripheralStatusMissing}

	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatal("Unwrap should return ErrInvalidTransition")
	}

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatal("errors.As should find *InvalidTransitionError")
	}
}
