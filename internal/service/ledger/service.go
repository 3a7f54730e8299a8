// Package ledger owns peripheral status transitions. Every change is
// validated against the transition table, appends exactly one history
// entry, and commits atomically with its alert and audit records.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type peripheralRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (domain.Peripheral, error)
	LockByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, params domain.StatusUpdateParams) error
}

type historyRepo interface {
	Append(ctx context.Context, e *domain.StatusHistoryEntry) (domain.StatusHistoryEntry, error)
	ListByPeripheral(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error)
}

type alertRaiser interface {
	Raise(ctx context.Context, peripheralID uuid.UUID, status domain.PeripheralStatus, at time.Time) (domain.Alert, error)
}

type auditLogger interface {
	Log(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the status ledger business logic.
type Service struct {
	peripherals peripheralRepo
	history     historyRepo
	alerts      alertRaiser
	audit       auditLogger
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new Ledger service.
func NewService(
	log *slog.Logger,
	peripherals peripheralRepo,
	history historyRepo,
	alerts alertRaiser,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		peripherals: peripherals,
		history:     history,
		alerts:      alerts,
		audit:       audit,
		tx:          tx,
		log:         log.With("service", "ledger"),
	}
}
