package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// Acknowledge records who acknowledged the alert and when, and returns the
// updated alert. Repeated acknowledgements keep the original stamp and are
// not audited again.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Alert{}, domain.ErrUnauthorized
	}

	now := time.Now().UTC()

	var acked domain.Alert
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.alerts.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get alert: %w", err)
		}
		if a.Deleted {
			return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
		}
		if a.AcknowledgedAt != nil {
			acked = a
			return nil
		}

		if err := s.alerts.Acknowledge(txCtx, id, actor, now); err != nil {
			return fmt.Errorf("acknowledge alert: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionAlertAcknowledge,
			EntityType: domain.EntityTypeAlert,
			EntityID:   &id,
			Details: map[string]any{
				"kind":          string(a.Kind),
				"peripheral_id": a.PeripheralID.String(),
			},
		}); err != nil {
			return fmt.Errorf("audit acknowledge: %w", err)
		}

		acked, err = s.alerts.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("reload alert: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Alert{}, err
	}

	s.log.InfoContext(ctx, "alert acknowledged",
		slog.String("actor", actor),
		slog.String("alert_id", id.String()),
	)

	return acked, nil
}
