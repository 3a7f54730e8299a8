// Package detection turns raw USB events reported by lab agents into
// status transitions. It auto-registers peripherals seen for the first
// time, applies the flapping rule that marks units faulty, and sweeps
// long-unplugged units to missing. All writes it causes go through the
// transition service under the actor "detector".
package detection

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// detectorActor is the identity recorded for every write this service causes.
const detectorActor = "detector"

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type pcRepo interface {
	GetByUniqueID(ctx context.Context, uniqueID string) (domain.PC, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type peripheralRepo interface {
	GetByUniqueID(ctx context.Context, uniqueID string) (domain.Peripheral, error)
	Create(ctx context.Context, p *domain.Peripheral) (domain.Peripheral, error)
	ListUnpluggedBefore(ctx context.Context, cutoff time.Time) ([]domain.Peripheral, error)
}

type eventRepo interface {
	Insert(ctx context.Context, e *domain.USBEvent) (domain.USBEvent, error)
	CountSince(ctx context.Context, peripheralUniqueID string, since time.Time) (connects, disconnects int, err error)
}

// transitionApplier is the slice of the transition service detection needs.
type transitionApplier interface {
	ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)
}

// paramsSource yields the current thresholds. They are re-read on every
// call so setting changes take effect without a restart.
type paramsSource interface {
	DetectionParams(ctx context.Context) (domain.DetectionParams, error)
}

type auditLogger interface {
	Log(ctx context.Context, rec *domain.AuditRecord) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service processes agent event reports and runs the missing sweep.
type Service struct {
	pcs         pcRepo
	peripherals peripheralRepo
	events      eventRepo
	ledger      transitionApplier
	params      paramsSource
	audit       auditLogger

	log *slog.Logger
}

// NewService creates a detection Service.
func NewService(
	log *slog.Logger,
	pcs pcRepo,
	peripherals peripheralRepo,
	events eventRepo,
	transitions transitionApplier,
	params paramsSource,
	audit auditLogger,
) *Service {
	return &Service{
		pcs:         pcs,
		peripherals: peripherals,
		events:      events,
		ledger:      transitions,
		params:      params,
		audit:       audit,
		log:         log.With("service", "detection"),
	}
}
