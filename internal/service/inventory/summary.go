package inventory

import (
	"context"
	"fmt"
)

// Summarize returns the dashboard counts: the fleet total, a per-status
// breakdown, a per-lab breakdown, and the number of open alerts.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	total, err := s.peripherals.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count peripherals: %w", err)
	}

	byStatus, err := s.peripherals.CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	byLab, err := s.peripherals.CountByLab(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by lab: %w", err)
	}

	unacknowledged, err := s.alerts.CountUnacknowledged(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open alerts: %w", err)
	}

	return &Summary{
		Total:                total,
		ByStatus:             byStatus,
		ByLab:                byLab,
		UnacknowledgedAlerts: unacknowledged,
	}, nil
}
