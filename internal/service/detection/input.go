package detection

import (
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const maxDeviceNameLen = 255

// EventInput is one USB event as reported by a lab agent. Name and
// DeviceKind are optional hints used only when the peripheral is seen
// for the first time. ReportedAt is the agent's clock.
type EventInput struct {
	PCUniqueID         string
	PeripheralUniqueID string
	Kind               domain.EventKind
	Name               *string
	DeviceKind         *domain.PeripheralKind
	ReportedAt         time.Time
}

// Validate checks all fields and collects all errors.
func (i *EventInput) Validate() error {
	var errs []domain.FieldError

	if i.PCUniqueID == "" {
		errs = append(errs, domain.FieldError{Field: "pc_unique_id", Message: "required"})
	}
	if i.PeripheralUniqueID == "" {
		errs = append(errs, domain.FieldError{Field: "peripheral_unique_id", Message: "required"})
	}
	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be connected or disconnected"})
	}
	if i.Name != nil && len(*i.Name) > maxDeviceNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 255 characters"})
	}
	if i.DeviceKind != nil && !i.DeviceKind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "device_kind", Message: "must be a known peripheral kind"})
	}
	if i.ReportedAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "reported_at", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
