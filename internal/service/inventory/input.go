package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const (
	maxNameLen    = 100
	maxNoteLen    = 200
	maxHostLen    = 255
	maxSearchLen  = 100
	maxRemarkLen  = 1000
	maxTokenTTL   = 90 * 24 * time.Hour
	defaultTTL    = 24 * time.Hour
	historyInline = 10
)

// CreateLabInput holds the parameters for creating a lab.
type CreateLabInput struct {
	Name string
	Room *string
}

// Validate checks all fields and collects all errors.
func (i *CreateLabInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 100 characters"})
	}
	if i.Room != nil && len(*i.Room) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "room", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// IssueTokenInput holds the parameters for issuing a registration token.
// A zero TTL means the default of 24 hours.
type IssueTokenInput struct {
	Note *string
	TTL  time.Duration
}

// Validate checks all fields and collects all errors.
func (i *IssueTokenInput) Validate() error {
	var errs []domain.FieldError

	if i.TTL < 0 {
		errs = append(errs, domain.FieldError{Field: "ttl", Message: "must be positive"})
	} else if i.TTL > maxTokenTTL {
		errs = append(errs, domain.FieldError{Field: "ttl", Message: "max 90 days"})
	}
	if i.Note != nil && len(*i.Note) > maxNoteLen {
		errs = append(errs, domain.FieldError{Field: "note", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RegisterDeviceInput holds the parameters for registering a PC with a
// one-time token.
type RegisterDeviceInput struct {
	Token      string
	PCUniqueID string
	Hostname   string
	LabID      *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *RegisterDeviceInput) Validate() error {
	var errs []domain.FieldError

	if i.Token == "" {
		errs = append(errs, domain.FieldError{Field: "token", Message: "required"})
	}
	if i.PCUniqueID == "" {
		errs = append(errs, domain.FieldError{Field: "pc_unique_id", Message: "required"})
	} else if len(i.PCUniqueID) > maxHostLen {
		errs = append(errs, domain.FieldError{Field: "pc_unique_id", Message: "max 255 characters"})
	}
	if i.Hostname == "" {
		errs = append(errs, domain.FieldError{Field: "hostname", Message: "required"})
	} else if len(i.Hostname) > maxHostLen {
		errs = append(errs, domain.FieldError{Field: "hostname", Message: "max 255 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListPeripheralsInput holds the filter for listing peripherals.
type ListPeripheralsInput struct {
	PCID   *uuid.UUID
	LabID  *uuid.UUID
	Status *domain.PeripheralStatus
	Kind   *domain.PeripheralKind
	Search *string
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListPeripheralsInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be connected, unplugged, missing, faulty, or replaced"})
	}
	if i.Kind != nil && !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be mouse, keyboard, monitor, headset, webcam, or other"})
	}
	if i.Search != nil && len(*i.Search) > maxSearchLen {
		errs = append(errs, domain.FieldError{Field: "search", Message: "max 100 characters"})
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

// UpdateRemarkInput holds the parameters for setting a peripheral's remark.
// A nil remark clears it.
type UpdateRemarkInput struct {
	PeripheralID uuid.UUID
	Remark       *string
}

// Validate checks all fields and collects all errors.
func (i *UpdateRemarkInput) Validate() error {
	var errs []domain.FieldError

	if i.PeripheralID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "peripheral_id", Message: "required"})
	}
	if i.Remark != nil && len(*i.Remark) > maxRemarkLen {
		errs = append(errs, domain.FieldError{Field: "remark", Message: "max 1000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
