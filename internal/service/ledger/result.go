package ledger

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// StatusChange is the outcome of one applied transition.
type StatusChange struct {
	Peripheral  domain.Peripheral
	Entry       domain.StatusHistoryEntry
	AlertRaised bool
}

// BulkResult holds the outcome of a bulk transition. Items succeed and
// fail independently; one failure never rolls back the others.
type BulkResult struct {
	Succeeded    []StatusChange
	Failed       []BulkFailure
	Total        int
	SuccessCount int
	FailureCount int
}

// BulkFailure describes a single failed item of a bulk transition.
type BulkFailure struct {
	PeripheralID uuid.UUID
	Error        string
}
