package detection

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// EventOutcome tells the caller what a processed event caused.
// PeripheralID is nil when the event concerned a unit that is not
// registered and was not auto-created (a disconnect from an unknown unit).
type EventOutcome struct {
	PeripheralID      *uuid.UUID
	PeripheralCreated bool

	// TransitionApplied is the status the event moved the unit to,
	// nil when the event caused no transition.
	TransitionApplied *domain.PeripheralStatus

	FaultyDetected bool
}
