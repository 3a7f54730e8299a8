package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// ListPCs returns registered PCs, optionally restricted to one lab.
func (s *Service) ListPCs(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error) {
	pcs, err := s.pcs.List(ctx, labID)
	if err != nil {
		return nil, fmt.Errorf("list pcs: %w", err)
	}

	return pcs, nil
}

// GetPC returns one PC with its lab and attached peripherals.
func (s *Service) GetPC(ctx context.Context, id uuid.UUID) (*PCDetail, error) {
	pc, err := s.pcs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pc: %w", err)
	}

	detail := &PCDetail{PC: pc}

	if pc.LabID != nil {
		lab, err := s.labs.GetByID(ctx, *pc.LabID)
		if err != nil {
			return nil, fmt.Errorf("get lab: %w", err)
		}
		detail.Lab = &lab
	}

	peripherals, err := s.peripherals.ListByPC(ctx, pc.ID)
	if err != nil {
		return nil, fmt.Errorf("list peripherals: %w", err)
	}
	detail.Peripherals = peripherals

	return detail, nil
}
