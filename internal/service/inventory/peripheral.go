package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// ListPeripherals returns peripherals matching the filter, newest first,
// plus the total match count.
func (s *Service) ListPeripherals(ctx context.Context, input ListPeripheralsInput) ([]domain.Peripheral, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	peripherals, total, err := s.peripherals.List(ctx, domain.PeripheralFilter{
		PCID:   input.PCID,
		LabID:  input.LabID,
		Status: input.Status,
		Kind:   input.Kind,
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list peripherals: %w", err)
	}

	return peripherals, total, nil
}

// GetPeripheral returns one peripheral with its latest transitions.
func (s *Service) GetPeripheral(ctx context.Context, id uuid.UUID) (*PeripheralDetail, error) {
	p, err := s.peripherals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get peripheral: %w", err)
	}

	entries, _, err := s.history.ListByPeripheral(ctx, p.ID, historyInline, 0)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return &PeripheralDetail{Peripheral: p, History: entries}, nil
}

// UpdateRemark sets or clears a peripheral's free-text remark and returns
// the updated peripheral. Remarks are not status-gated.
func (s *Service) UpdateRemark(ctx context.Context, input UpdateRemarkInput) (domain.Peripheral, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Peripheral{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Peripheral{}, err
	}

	var updated domain.Peripheral
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.peripherals.GetByID(txCtx, input.PeripheralID)
		if err != nil {
			return fmt.Errorf("get peripheral: %w", err)
		}

		if err := s.peripherals.UpdateRemark(txCtx, p.ID, input.Remark); err != nil {
			return fmt.Errorf("update remark: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionRemarkUpdate,
			EntityType: domain.EntityTypePeripheral,
			EntityID:   &p.ID,
			Details: map[string]any{
				"old": remarkValue(p.Remark),
				"new": remarkValue(input.Remark),
			},
		}); err != nil {
			return fmt.Errorf("audit remark update: %w", err)
		}

		updated, err = s.peripherals.GetByID(txCtx, p.ID)
		if err != nil {
			return fmt.Errorf("reload peripheral: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Peripheral{}, err
	}

	s.log.InfoContext(ctx, "remark updated",
		slog.String("actor", actor),
		slog.String("peripheral_id", updated.ID.String()),
	)

	return updated, nil
}

// remarkValue renders an optional remark for the audit details; nil stays
// a JSON null.
func remarkValue(r *string) any {
	if r == nil {
		return nil
	}
	return *r
}
