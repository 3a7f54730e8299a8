// Package inventory manages the device registry: labs, PC registration
// through one-time tokens, peripheral listings, remarks, dashboard counts,
// and the spreadsheet export. Status changes are out of scope here; those
// go through the transition service.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

type labRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lab, error)
	List(ctx context.Context) ([]domain.Lab, error)
	Create(ctx context.Context, lab *domain.Lab) (domain.Lab, error)
}

type pcRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.PC, error)
	List(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error)
	Create(ctx context.Context, pc *domain.PC) (domain.PC, error)
}

type peripheralRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error)
	ListByPC(ctx context.Context, pcID uuid.UUID) ([]domain.Peripheral, error)
	List(ctx context.Context, f domain.PeripheralFilter) ([]domain.Peripheral, int, error)
	Count(ctx context.Context, labID *uuid.UUID) (int, error)
	CountByStatus(ctx context.Context, labID *uuid.UUID) ([]domain.StatusCount, error)
	CountByLab(ctx context.Context) ([]domain.LabCount, error)
	UpdateRemark(ctx context.Context, id uuid.UUID, remark *string) error
}

type historyRepo interface {
	ListByPeripheral(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error)
}

type tokenRepo interface {
	GetByHash(ctx context.Context, hash string) (domain.RegistrationToken, error)
	Create(ctx context.Context, token *domain.RegistrationToken) (domain.RegistrationToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID, pcID uuid.UUID, at time.Time) error
}

type alertCounter interface {
	CountUnacknowledged(ctx context.Context) (int, error)
}

type auditLogger interface {
	Log(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements inventory use cases.
type Service struct {
	labs        labRepo
	pcs         pcRepo
	peripherals peripheralRepo
	history     historyRepo
	tokens      tokenRepo
	alerts      alertCounter
	audit       auditLogger
	tx          txManager
	log         *slog.Logger

	tokenTTL   time.Duration
	exportRows int
}

// NewService creates an inventory service.
func NewService(
	log *slog.Logger,
	labs labRepo,
	pcs pcRepo,
	peripherals peripheralRepo,
	history historyRepo,
	tokens tokenRepo,
	alerts alertCounter,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		labs:        labs,
		pcs:         pcs,
		peripherals: peripherals,
		history:     history,
		tokens:      tokens,
		alerts:      alerts,
		audit:       audit,
		tx:          tx,
		log:         log.With("service", "inventory"),
	}
}

// SetDefaultTokenTTL overrides the lifetime given to registration tokens
// issued without an explicit TTL. Zero and negative values keep the default.
func (s *Service) SetDefaultTokenTTL(d time.Duration) {
	if d > 0 {
		s.tokenTTL = d
	}
}

// SetExportRowLimit overrides how many peripherals the workbook export will
// include. Zero and negative values keep the default.
func (s *Service) SetExportRowLimit(n int) {
	if n > 0 {
		s.exportRows = n
	}
}

func (s *Service) defaultTokenTTL() time.Duration {
	if s.tokenTTL > 0 {
		return s.tokenTTL
	}
	return defaultTTL
}

func (s *Service) exportRowLimit() int {
	if s.exportRows > 0 {
		return s.exportRows
	}
	return defaultExportRows
}
