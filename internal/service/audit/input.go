package audit

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// ListInput holds the audit log filter. All filter fields are optional
// and combine with AND.
type ListInput struct {
	Actor      *string
	Action     *domain.AuditAction
	EntityType *domain.EntityType
	EntityID   *uuid.UUID
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Actor != nil && *i.Actor == "" {
		errs = append(errs, domain.FieldError{Field: "actor", Message: "must not be empty when set"})
	}
	if i.Action != nil && *i.Action == "" {
		errs = append(errs, domain.FieldError{Field: "action", Message: "must not be empty when set"})
	}
	if i.EntityType != nil && *i.EntityType == "" {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "must not be empty when set"})
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
