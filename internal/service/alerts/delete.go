package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// Delete hides the alert from listings. The row stays in place so Restore
// can bring it back. Deleting an already-hidden alert is a no-op.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.alerts.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get alert: %w", err)
		}
		if a.Deleted {
			return nil
		}

		if err := s.alerts.SoftDelete(txCtx, id); err != nil {
			return fmt.Errorf("delete alert: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionAlertDelete,
			EntityType: domain.EntityTypeAlert,
			EntityID:   &id,
			Details: map[string]any{
				"kind":          string(a.Kind),
				"peripheral_id": a.PeripheralID.String(),
			},
		}); err != nil {
			return fmt.Errorf("audit delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "alert deleted",
		slog.String("actor", actor),
		slog.String("alert_id", id.String()),
	)

	return nil
}

// Restore brings back a soft-deleted alert and returns it. Restoring an
// alert that is not deleted is a no-op.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Alert{}, domain.ErrUnauthorized
	}

	var restored domain.Alert
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.alerts.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get alert: %w", err)
		}
		if !a.Deleted {
			restored = a
			return nil
		}

		if err := s.alerts.Restore(txCtx, id); err != nil {
			return fmt.Errorf("restore alert: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionAlertRestore,
			EntityType: domain.EntityTypeAlert,
			EntityID:   &id,
			Details: map[string]any{
				"kind":          string(a.Kind),
				"peripheral_id": a.PeripheralID.String(),
			},
		}); err != nil {
			return fmt.Errorf("audit restore: %w", err)
		}

		restored = a
		restored.Deleted = false
		return nil
	})
	if err != nil {
		return domain.Alert{}, err
	}

	s.log.InfoContext(ctx, "alert restored",
		slog.String("actor", actor),
		slog.String("alert_id", id.String()),
	)

	return restored, nil
}
