package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// SweepMissing marks peripherals missing that have stayed unplugged
// longer than the configured threshold. It returns the number of units
// swept. One failed unit does not stop the sweep.
func (s *Service) SweepMissing(ctx context.Context) (int, error) {
	params, err := s.params.DetectionParams(ctx)
	if err != nil {
		return 0, fmt.Errorf("detection params: %w", err)
	}

	cutoff := time.Now().UTC().Add(-params.MissingAfter)
	stale, err := s.peripherals.ListUnpluggedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale peripherals: %w", err)
	}

	reason := fmt.Sprintf("unplugged for more than %d minutes", int(params.MissingAfter.Minutes()))

	swept := 0
	for _, p := range stale {
		_, err := s.ledger.ApplyTransition(ctx, ledger.TransitionInput{
			PeripheralID: p.ID,
			Target:       domain.PeripheralStatusMissing,
			Reason:       &reason,
			Actor:        detectorActor,
		})
		if err != nil {
			// A unit can change state between the listing and here.
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			s.log.ErrorContext(ctx, "sweep transition error",
				slog.String("peripheral_id", p.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.log.InfoContext(ctx, "missing sweep applied",
			slog.Int("swept", swept),
			slog.Int("candidates", len(stale)),
		)
	}

	return swept, nil
}
