package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// List returns alerts matching the filter, newest first, plus the total
// match count.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Alert, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	alerts, total, err := s.alerts.List(ctx, domain.AlertFilter{
		UnacknowledgedOnly: input.UnacknowledgedOnly,
		IncludeDeleted:     input.IncludeDeleted,
		Kind:               input.Kind,
		PeripheralID:       input.PeripheralID,
		Limit:              input.Limit,
		Offset:             input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}

	return alerts, total, nil
}

// ListSince returns non-deleted alerts created strictly after the given
// time, oldest first. The stream endpoint polls this to push new alerts.
func (s *Service) ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error) {
	alerts, err := s.alerts.ListSince(ctx, after)
	if err != nil {
		return nil, fmt.Errorf("list alerts since: %w", err)
	}

	return alerts, nil
}
