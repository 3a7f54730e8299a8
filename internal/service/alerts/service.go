// Package alerts manages the attention alerts raised by status
// transitions: creating them inside the transition transaction, listing,
// acknowledgement, and soft deletion. Alerts are never hard-deleted here;
// retention pruning lives in the cleanup job.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

type alertRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Alert, error)
	List(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, int, error)
	ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error)
	Create(ctx context.Context, a *domain.Alert) (domain.Alert, error)
	Acknowledge(ctx context.Context, id uuid.UUID, by string, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

type peripheralGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
}

type auditLogger interface {
	Log(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements alert use cases.
type Service struct {
	alerts      alertRepo
	peripherals peripheralGetter
	audit       auditLogger
	tx          txManager
	log         *slog.Logger
}

// NewService creates an alert service.
func NewService(
	log *slog.Logger,
	alerts alertRepo,
	peripherals peripheralGetter,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		alerts:      alerts,
		peripherals: peripherals,
		audit:       audit,
		tx:          tx,
		log:         log.With("service", "alerts"),
	}
}
