package domain

import (
	"time"

	"github.com/google/uuid"
)

// PeripheralKind categorizes a tracked accessory.
type PeripheralKind string

const (
	PeripheralKindMouse    PeripheralKind = "mouse"
	PeripheralKindKeyboard PeripheralKind = "keyboard"
	PeripheralKindMonitor  PeripheralKind = "monitor"
	PeripheralKindHeadset  PeripheralKind = "headset"
	PeripheralKindWebcam   PeripheralKind = "webcam"
	PeripheralKindOther    PeripheralKind = "other"
)

func (k PeripheralKind) String() string { return string(k) }

func (k PeripheralKind) IsValid() bool {
	switch k {
	case PeripheralKindMouse, PeripheralKindKeyboard, PeripheralKindMonitor, PeripheralKindHeadset, PeripheralKindWebcam, PeripheralKindOther:
		return true
	}
	return false
}

// Peripheral represents one tracked accessory attached to a lab PC.
// Status is nil until the first assignment; after that it is always one of
// the five PeripheralStatus values and changes only through the ledger.
// Peripherals are never deleted; retired units are marked replaced or missing.
type Peripheral struct {
	ID              uuid.UUID
	PCID            uuid.UUID
	UniqueID        string
	Name            string
	Kind            PeripheralKind
	Status          *PeripheralStatus
	StatusUpdatedBy *string
	StatusUpdatedAt *time.Time
	StatusReason    *string
	Remark          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StatusUpdateParams holds the fields written to a peripheral by a status transition.
type StatusUpdateParams struct {
	Status    PeripheralStatus
	UpdatedBy string
	UpdatedAt time.Time
	Reason    *string
}

// StatusHistoryEntry is an immutable record of one status transition.
// OldStatus is nil for the first entry of a peripheral. Entries are
// append-only: once written, never mutated or deleted.
type StatusHistoryEntry struct {
	ID           uuid.UUID
	PeripheralID uuid.UUID
	OldStatus    *PeripheralStatus
	NewStatus    PeripheralStatus
	Reason       *string
	ChangedBy    string
	CreatedAt    time.Time
}

// StatusCount is one bucket of the status summary.
type StatusCount struct {
	Status PeripheralStatus
	Count  int
}

// LabCount is one bucket of the per-lab summary. PCs outside any lab
// group under the empty name.
type LabCount struct {
	LabName string
	Count   int
}
