package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// CreateLab registers a new lab and returns it.
func (s *Service) CreateLab(ctx context.Context, input CreateLabInput) (domain.Lab, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Lab{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Lab{}, err
	}

	var created domain.Lab
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.labs.Create(txCtx, &domain.Lab{
			ID:        uuid.New(),
			Name:      input.Name,
			Room:      input.Room,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create lab: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionLabCreate,
			EntityType: domain.EntityTypeLab,
			EntityID:   &created.ID,
			Details:    map[string]any{"name": created.Name},
		}); err != nil {
			return fmt.Errorf("audit lab create: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Lab{}, err
	}

	s.log.InfoContext(ctx, "lab created",
		slog.String("actor", actor),
		slog.String("lab_id", created.ID.String()),
		slog.String("name", created.Name),
	)

	return created, nil
}

// ListLabs returns all labs ordered by name.
func (s *Service) ListLabs(ctx context.Context) ([]domain.Lab, error) {
	labs, err := s.labs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}

	return labs, nil
}
