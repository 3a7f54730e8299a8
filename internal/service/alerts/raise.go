package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Raise records an alert for a peripheral that landed in an attention
// state. The transition flow calls this inside its transaction, so the
// alert commits or rolls back together with the status change.
func (s *Service) Raise(ctx context.Context, peripheralID uuid.UUID, status domain.PeripheralStatus, at time.Time) (domain.Alert, error) {
	p, err := s.peripherals.GetByID(ctx, peripheralID)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("get peripheral: %w", err)
	}

	created, err := s.alerts.Create(ctx, &domain.Alert{
		ID:           uuid.New(),
		PeripheralID: p.ID,
		Kind:         status,
		Message:      fmt.Sprintf("%s %s reported %s", p.Kind, p.Name, status),
		CreatedAt:    at,
	})
	if err != nil {
		return domain.Alert{}, fmt.Errorf("create alert: %w", err)
	}

	return created, nil
}
