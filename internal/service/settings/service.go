// Package settings exposes the runtime-tunable system settings. Stored
// values override the built-in defaults; a key never written reads as
// its default. The package also assembles the typed thresholds the
// detection service and the retention jobs run on.
package settings

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type settingsRepo interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Upsert(ctx context.Context, s *domain.Setting) (domain.Setting, error)
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

// Service reads and updates system settings.
type Service struct {
	settings settingsRepo
	audit    auditLogger
	tx       txManager

	log *slog.Logger
}

// NewService creates a settings Service.
func NewService(log *slog.Logger, settings settingsRepo, audit auditLogger, tx txManager) *Service {
	return &Service{
		settings: settings,
		audit:    audit,
		tx:       tx,
		log:      log.With("service", "settings"),
	}
}
