package audit

import (
	"context"
	"fmt"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// List returns audit records matching the filter, newest first, plus the
// total match count for pagination.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.AuditRecord, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	records, total, err := s.audit.List(ctx, domain.AuditFilter{
		Actor:      input.Actor,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list audit records: %w", err)
	}

	return records, total, nil
}
