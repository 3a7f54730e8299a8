package ledger

import (
	"context"
	"fmt"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// GetHistory returns a peripheral's transition history, newest first,
// plus the total entry count for pagination. Returns domain.ErrNotFound
// if the peripheral does not exist.
func (s *Service) GetHistory(ctx context.Context, input HistoryInput) ([]domain.StatusHistoryEntry, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	if _, err := s.peripherals.GetByID(ctx, input.PeripheralID); err != nil {
		return nil, 0, fmt.Errorf("get peripheral: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	entries, total, err := s.history.ListByPeripheral(ctx, input.PeripheralID, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}

	return entries, total, nil
}
