package alerts

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// ListInput holds the filter for listing alerts.
type ListInput struct {
	UnacknowledgedOnly bool
	IncludeDeleted     bool
	Kind               *domain.PeripheralStatus
	PeripheralID       *uuid.UUID
	Limit              int
	Offset             int
}

// Validate checks all fields and collects all errors.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Kind != nil && !i.Kind.TriggersAlert() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be missing, faulty, or replaced"})
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
