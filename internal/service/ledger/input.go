package ledger

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const maxReasonLen = 500

// TransitionInput holds the parameters for applying one status transition.
// Exactly one of PeripheralID / UniqueID identifies the unit. Actor is the
// fallback identity for internal callers (detection, seeding); requests
// coming through the API carry the actor in the context instead.
type TransitionInput struct {
	PeripheralID uuid.UUID
	UniqueID     string
	Target       domain.PeripheralStatus
	Reason       *string
	Actor        string
}

// Validate checks all fields and collects all errors.
func (i *TransitionInput) Validate() error {
	var errs []domain.FieldError

	hasID := i.PeripheralID != uuid.Nil
	hasUniqueID := i.UniqueID != ""
	if hasID == hasUniqueID {
		errs = append(errs, domain.FieldError{Field: "peripheral_id", Message: "exactly one of peripheral_id and unique_id is required"})
	}
	if !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must be connected, unplugged, missing, faulty, or replaced"})
	}
	if i.Reason != nil && len(*i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BulkTransitionInput holds the parameters for applying one transition to
// many peripherals at once.
type BulkTransitionInput struct {
	PeripheralIDs []uuid.UUID
	Target        domain.PeripheralStatus
	Reason        *string
	Actor         string
}

// Validate checks all fields and collects all errors.
func (i *BulkTransitionInput) Validate() error {
	var errs []domain.FieldError

	if len(i.PeripheralIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "peripheral_ids", Message: "required (at least 1)"})
	} else if len(i.PeripheralIDs) > 100 {
		errs = append(errs, domain.FieldError{Field: "peripheral_ids", Message: "too many (max 100)"})
	}
	if !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must be connected, unplugged, missing, faulty, or replaced"})
	}
	if i.Reason != nil && len(*i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// HistoryInput holds the parameters for fetching a peripheral's
// transition history.
type HistoryInput struct {
	PeripheralID uuid.UUID
	Limit        int
	Offset       int
}

// Validate checks all fields and collects all errors.
func (i *HistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.PeripheralID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "peripheral_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
