// Package audit exposes the read side of the append-only audit log.
// Writes happen inside the services that cause them; this package only
// answers "who did what" queries for the admin UI.
package audit

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

type auditRepo interface {
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error)
}

// Service lists audit records.
type Service struct {
	audit auditRepo

	log *slog.Logger
}

// NewService creates an audit Service.
func NewService(log *slog.Logger, audit auditRepo) *Service {
	return &Service{
		audit: audit,
		log:   log.With("service", "audit"),
	}
}
