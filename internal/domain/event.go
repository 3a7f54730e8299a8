package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is the direction of a reported USB event.
type EventKind string

const (
	EventKindConnected    EventKind = "connected"
	EventKindDisconnected EventKind = "disconnected"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventKindConnected, EventKindDisconnected:
		return true
	}
	return false
}

// USBEvent is one connect/disconnect observation reported by a lab agent.
// ReportedAt is the agent's clock; ReceivedAt is the server's.
type USBEvent struct {
	ID                 uuid.UUID
	PCID               uuid.UUID
	PeripheralUniqueID string
	Kind               EventKind
	ReportedAt         time.Time
	ReceivedAt         time.Time
}
