package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// Update changes one setting and audits the old and new value. The old
// value in the audit record is the effective value, so a first write
// over a default records the default it replaced.
func (s *Service) Update(ctx context.Context, input UpdateInput) (domain.Setting, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Setting{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Setting{}, err
	}

	var updated domain.Setting
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		old, err := s.Get(ctx, input.Key)
		if err != nil {
			return err
		}

		updated, err = s.settings.Upsert(ctx, &domain.Setting{
			Key:       input.Key,
			Value:     input.Value,
			UpdatedBy: actor,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("upsert setting: %w", err)
		}

		if err := s.audit.Log(ctx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionSettingUpdate,
			EntityType: domain.EntityTypeSetting,
			Details: map[string]any{
				"key": input.Key,
				"old": old.Value,
				"new": input.Value,
			},
		}); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Setting{}, err
	}

	s.log.InfoContext(ctx, "setting updated",
		slog.String("key", input.Key),
		slog.String("value", input.Value),
		slog.String("actor", actor),
	)

	return updated, nil
}
