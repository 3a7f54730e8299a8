package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lab is a physical computer lab hosting PCs.
type Lab struct {
	ID        uuid.UUID
	Name      string
	Room      *string
	CreatedAt time.Time
}

// PC is a registered lab machine that peripherals attach to.
type PC struct {
	ID           uuid.UUID
	LabID        *uuid.UUID
	UniqueID     string
	Hostname     string
	RegisteredAt time.Time
	LastSeenAt   *time.Time
}

// RegistrationToken is a single-use credential for registering a PC.
// Only the SHA-256 hash of the raw token is stored.
type RegistrationToken struct {
	ID         uuid.UUID
	TokenHash  string
	Note       *string
	CreatedBy  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UsedAt     *time.Time
	UsedByPCID *uuid.UUID
}

// IsUsed returns true if the token has already registered a PC.
func (t *RegistrationToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RegistrationToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
