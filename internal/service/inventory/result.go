package inventory

import (
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// IssuedToken carries the raw token value next to the stored row.
// Raw is handed out exactly once; only its hash is persisted.
type IssuedToken struct {
	Raw   string
	Token domain.RegistrationToken
}

// PCDetail is a PC with its lab and attached peripherals.
type PCDetail struct {
	PC          domain.PC
	Lab         *domain.Lab
	Peripherals []domain.Peripheral
}

// PeripheralDetail is a peripheral with its latest transition history.
type PeripheralDetail struct {
	Peripheral domain.Peripheral
	History    []domain.StatusHistoryEntry
}

// Summary holds the dashboard counts.
type Summary struct {
	Total                int
	ByStatus             []domain.StatusCount
	ByLab                []domain.LabCount
	UnacknowledgedAlerts int
}
