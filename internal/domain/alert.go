package domain

import (
	"time"

	"github.com/google/uuid"
)

// Alert records a peripheral entering an attention-requiring status.
// Kind is always one of the alert statuses (missing, faulty, replaced).
// Alerts are soft-deleted: Deleted hides them from default listings but the
// row is kept and can be restored.
type Alert struct {
	ID             uuid.UUID
	PeripheralID   uuid.UUID
	Kind           PeripheralStatus
	Message        string
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy *string
	Deleted        bool
}

// IsAcknowledged returns true if someone has acknowledged the alert.
func (a *Alert) IsAcknowledged() bool {
	return a.AcknowledgedAt != nil
}
