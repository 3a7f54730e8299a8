package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// ProcessEvent handles one USB event from a lab agent.
//
// The reporting PC must be registered. A connect from a unit never seen
// before auto-registers it; a disconnect from an unknown unit is stored
// as an event only. For known units the event maps to a transition
// (connect -> connected, disconnect -> unplugged) which is applied when
// the transition table allows it; pairs the table forbids are recorded
// as events without error so agents never have to care about ledger
// rules. After storing the event the flapping rule runs: enough
// connect/disconnect cycles inside the window mark the unit faulty.
func (s *Service) ProcessEvent(ctx context.Context, input EventInput) (*EventOutcome, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	pc, err := s.pcs.GetByUniqueID(ctx, input.PCUniqueID)
	if err != nil {
		return nil, fmt.Errorf("get pc: %w", err)
	}

	now := time.Now().UTC()
	if err := s.pcs.TouchLastSeen(ctx, pc.ID, now); err != nil {
		return nil, fmt.Errorf("touch pc: %w", err)
	}

	outcome := &EventOutcome{}

	p, err := s.peripherals.GetByUniqueID(ctx, input.PeripheralUniqueID)
	switch {
	case err == nil:
		outcome.PeripheralID = &p.ID
		applied, err := s.transitionForEvent(ctx, p, input.Kind)
		if err != nil {
			return nil, err
		}
		outcome.TransitionApplied = applied

	case errors.Is(err, domain.ErrNotFound):
		if input.Kind == domain.EventKindConnected {
			created, err := s.autoCreate(ctx, pc, input, now)
			if err != nil {
				return nil, err
			}
			connected := domain.PeripheralStatusConnected
			outcome.PeripheralID = &created.ID
			outcome.PeripheralCreated = true
			outcome.TransitionApplied = &connected
		}
		// A disconnect from an unknown unit is only worth the event row.

	default:
		return nil, fmt.Errorf("get peripheral: %w", err)
	}

	if _, err := s.events.Insert(ctx, &domain.USBEvent{
		ID:                 uuid.New(),
		PCID:               pc.ID,
		PeripheralUniqueID: input.PeripheralUniqueID,
		Kind:               input.Kind,
		ReportedAt:         input.ReportedAt,
		ReceivedAt:         now,
	}); err != nil {
		return nil, fmt.Errorf("store event: %w", err)
	}

	faulty, err := s.checkFaulty(ctx, input.PeripheralUniqueID, now)
	if err != nil {
		return nil, err
	}
	outcome.FaultyDetected = faulty

	return outcome, nil
}

// transitionForEvent applies the transition an event maps to. Events whose
// transition the table forbids, including a repeated connect on an already
// connected unit, are skipped with a debug line.
func (s *Service) transitionForEvent(ctx context.Context, p domain.Peripheral, kind domain.EventKind) (*domain.PeripheralStatus, error) {
	target := domain.PeripheralStatusConnected
	if kind == domain.EventKindDisconnected {
		target = domain.PeripheralStatusUnplugged
	}

	_, err := s.ledger.ApplyTransition(ctx, ledger.TransitionInput{
		PeripheralID: p.ID,
		Target:       target,
		Actor:        detectorActor,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.log.DebugContext(ctx, "event without transition",
				slog.String("peripheral_id", p.ID.String()),
				slog.String("event", string(kind)),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("apply %s: %w", target, err)
	}

	return &target, nil
}

// autoCreate registers a peripheral first seen in a connect report. The
// initial connected assignment still goes through the transition service
// so the history entry and any later alerts stay consistent.
func (s *Service) autoCreate(ctx context.Context, pc domain.PC, input EventInput, now time.Time) (domain.Peripheral, error) {
	name := input.PeripheralUniqueID
	if input.Name != nil && *input.Name != "" {
		name = *input.Name
	}
	kind := domain.PeripheralKindOther
	if input.DeviceKind != nil {
		kind = *input.DeviceKind
	}

	created, err := s.peripherals.Create(ctx, &domain.Peripheral{
		ID:        uuid.New(),
		PCID:      pc.ID,
		UniqueID:  input.PeripheralUniqueID,
		Name:      name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Peripheral{}, fmt.Errorf("create peripheral: %w", err)
	}

	if err := s.audit.Log(ctx, &domain.AuditRecord{
		Actor:      detectorActor,
		Action:     domain.AuditActionPeripheralCreate,
		EntityType: domain.EntityTypePeripheral,
		EntityID:   &created.ID,
		Details: map[string]any{
			"pc_id":     pc.ID.String(),
			"unique_id": created.UniqueID,
			"kind":      string(created.Kind),
		},
	}); err != nil {
		// The unit itself is in; losing the creation audit line is not
		// worth failing the agent's report over.
		s.log.ErrorContext(ctx, "audit error", slog.Any("error", err))
	}

	if _, err := s.ledger.ApplyTransition(ctx, ledger.TransitionInput{
		PeripheralID: created.ID,
		Target:       domain.PeripheralStatusConnected,
		Actor:        detectorActor,
	}); err != nil {
		return domain.Peripheral{}, fmt.Errorf("initial assignment: %w", err)
	}

	s.log.InfoContext(ctx, "peripheral auto-registered",
		slog.String("peripheral_id", created.ID.String()),
		slog.String("unique_id", created.UniqueID),
		slog.String("pc_id", pc.ID.String()),
	)

	return created, nil
}

// checkFaulty applies the flapping rule after an event was stored.
func (s *Service) checkFaulty(ctx context.Context, uniqueID string, now time.Time) (bool, error) {
	params, err := s.params.DetectionParams(ctx)
	if err != nil {
		return false, fmt.Errorf("detection params: %w", err)
	}

	connects, disconnects, err := s.events.CountSince(ctx, uniqueID, now.Add(-params.FaultyWindow))
	if err != nil {
		return false, fmt.Errorf("count events: %w", err)
	}

	cycles := min(connects, disconnects)
	if cycles < params.FaultyCycleThreshold {
		return false, nil
	}

	p, err := s.peripherals.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		// The flapping unit may not be registered at all.
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get peripheral: %w", err)
	}

	reason := fmt.Sprintf("%d connect/disconnect cycles in %d minutes", cycles, int(params.FaultyWindow.Minutes()))
	_, err = s.ledger.ApplyTransition(ctx, ledger.TransitionInput{
		PeripheralID: p.ID,
		Target:       domain.PeripheralStatusFaulty,
		Reason:       &reason,
		Actor:        detectorActor,
	})
	if err != nil {
		// Already faulty, or in a state the table keeps out of faulty.
		if errors.Is(err, domain.ErrInvalidTransition) {
			return false, nil
		}
		return false, fmt.Errorf("apply faulty: %w", err)
	}

	s.log.InfoContext(ctx, "flapping detected",
		slog.String("peripheral_id", p.ID.String()),
		slog.Int("cycles", cycles),
	)

	return true, nil
}
