package ledger

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// BulkApplyTransition applies the same transition to many peripherals.
// Items are independent: each runs in its own transaction and one failure
// never aborts or rolls back the others. Per-item audit records come from
// the individual transitions; one summary record covers the bulk call.
func (s *Service) BulkApplyTransition(ctx context.Context, input BulkTransitionInput) (*BulkResult, error) {
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

	result := &BulkResult{Total: len(input.PeripheralIDs)}

	for _, id := range input.PeripheralIDs {
		change, err := s.ApplyTransition(ctx, TransitionInput{
			PeripheralID: id,
			Target:       input.Target,
			Reason:       input.Reason,
			Actor:        input.Actor,
		})
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{PeripheralID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, *change)
	}

	result.SuccessCount = len(result.Succeeded)
	result.FailureCount = len(result.Failed)

	// Write a single summary record if anything changed.
	if result.SuccessCount > 0 {
		if err := s.audit.Log(ctx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionStatusBulkUpdate,
			EntityType: domain.EntityTypePeripheral,
			Details: map[string]any{
				"target":    string(input.Target),
				"total":     result.Total,
				"succeeded": result.SuccessCount,
				"failed":    result.FailureCount,
			},
		}); err != nil {
			s.log.ErrorContext(ctx, "bulk transition audit error",
				slog.String("error", err.Error()),
			)
		}
	}

	s.log.InfoContext(ctx, "bulk transition applied",
		slog.String("actor", actor),
		slog.String("target", string(input.Target)),
		slog.Int("total", result.Total),
		slog.Int("succeeded", result.SuccessCount),
		slog.Int("failed", result.FailureCount),
	)

	return result, nil
}
