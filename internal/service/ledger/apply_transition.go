package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// ApplyTransition validates and applies one status transition. The row
// lock, status update, history entry, alert and audit record commit in a
// single transaction; concurrent attempts on the same peripheral
// serialize on the lock. A transition the table forbids returns
// *domain.InvalidTransitionError and writes nothing.
func (s *Service) ApplyTransition(ctx context.Context, input TransitionInput) (*StatusChange, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		actor = input.Actor
	}
	if actor == "" {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	id := input.PeripheralID
	if input.UniqueID != "" {
		p, err := s.peripherals.GetByUniqueID(ctx, input.UniqueID)
		if err != nil {
			return nil, fmt.Errorf("resolve peripheral: %w", err)
		}
		id = p.ID
	}

	now := time.Now().UTC()

	var change *StatusChange

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// The lock re-reads current state, so the check below stays true
		// until commit.
		p, err := s.peripherals.LockByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("lock peripheral: %w", err)
		}

		if err := domain.ValidateTransition(p.Status, input.Target); err != nil {
			return err
		}

		oldStatus := p.Status

		if err := s.peripherals.UpdateStatus(txCtx, p.ID, domain.StatusUpdateParams{
			Status:    input.Target,
			UpdatedBy: actor,
			UpdatedAt: now,
			Reason:    input.Reason,
		}); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		entry, err := s.history.Append(txCtx, &domain.StatusHistoryEntry{
			ID:           uuid.New(),
			PeripheralID: p.ID,
			OldStatus:    oldStatus,
			NewStatus:    input.Target,
			Reason:       input.Reason,
			ChangedBy:    actor,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		alertRaised := false
		if input.Target.TriggersAlert() {
			if _, err := s.alerts.Raise(txCtx, p.ID, input.Target, now); err != nil {
				return fmt.Errorf("raise alert: %w", err)
			}
			alertRaised = true
		}

		var oldVal any
		if oldStatus != nil {
			oldVal = string(*oldStatus)
		}
		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionStatusUpdate,
			EntityType: domain.EntityTypePeripheral,
			EntityID:   &p.ID,
			Details: map[string]any{
				"old_status": oldVal,
				"new_status": string(input.Target),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		// Re-read inside the transaction: updated_at is trigger-maintained,
		// so the locked snapshot is stale after the update.
		updated, err := s.peripherals.GetByID(txCtx, p.ID)
		if err != nil {
			return fmt.Errorf("reload peripheral: %w", err)
		}

		change = &StatusChange{Peripheral: updated, Entry: entry, AlertRaised: alertRaised}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "status transition applied",
		slog.String("actor", actor),
		slog.String("peripheral_id", change.Peripheral.ID.String()),
		slog.String("old_status", statusOrEmpty(change.Entry.OldStatus)),
		slog.String("new_status", string(change.Entry.NewStatus)),
		slog.Bool("alert_raised", change.AlertRaised),
	)

	return change, nil
}

// statusOrEmpty renders a nullable status for log attributes.
func statusOrEmpty(s *domain.PeripheralStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
