package domain

import "github.com/google/uuid"

// PeripheralFilter contains filtering/pagination parameters for peripheral listings.
type PeripheralFilter struct {
	PCID   *uuid.UUID
	LabID  *uuid.UUID
	Status *PeripheralStatus
	Kind   *PeripheralKind
	// Search matches name and unique_id case-insensitively.
	Search *string
	Limit  int
	Offset int
}

// AlertFilter contains filtering/pagination parameters for alert listings.
type AlertFilter struct {
	UnacknowledgedOnly bool
	IncludeDeleted     bool
	Kind               *PeripheralStatus
	PeripheralID       *uuid.UUID
	Limit              int
	Offset             int
}

// AuditFilter contains filtering/pagination parameters for audit log listings.
type AuditFilter struct {
	Actor      *string
	Action     *AuditAction
	EntityType *EntityType
	EntityID   *uuid.UUID
	Limit      int
	Offset     int
}
