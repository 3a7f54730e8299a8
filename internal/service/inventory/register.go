package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/auth"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// RegisterDevice provisions a PC using a one-time registration token. The
// token itself is the credential here, not a bearer identity: lookups that
// fail for any reason (unknown, used, expired) all come back as
// ErrUnauthorized so callers cannot probe token state.
func (s *Service) RegisterDevice(ctx context.Context, input RegisterDeviceInput) (domain.PC, error) {
	if err := input.Validate(); err != nil {
		return domain.PC{}, err
	}

	now := time.Now().UTC()
	hash := auth.HashToken(input.Token)

	var created domain.PC
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		token, err := s.tokens.GetByHash(txCtx, hash)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("registration token: %w", domain.ErrUnauthorized)
			}
			return fmt.Errorf("get registration token: %w", err)
		}
		if token.IsUsed() || token.IsExpired(now) {
			return fmt.Errorf("registration token: %w", domain.ErrUnauthorized)
		}

		if input.LabID != nil {
			if _, err := s.labs.GetByID(txCtx, *input.LabID); err != nil {
				return fmt.Errorf("get lab: %w", err)
			}
		}

		created, err = s.pcs.Create(txCtx, &domain.PC{
			ID:           uuid.New(),
			LabID:        input.LabID,
			UniqueID:     input.PCUniqueID,
			Hostname:     input.Hostname,
			RegisteredAt: now,
		})
		if err != nil {
			return fmt.Errorf("create pc: %w", err)
		}

		// The guarded update loses the race to a concurrent registration
		// that consumed the same token between our read and here.
		if err := s.tokens.MarkUsed(txCtx, token.ID, created.ID, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("registration token: %w", domain.ErrUnauthorized)
			}
			return fmt.Errorf("mark token used: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      input.PCUniqueID,
			Action:     domain.AuditActionDeviceRegister,
			EntityType: domain.EntityTypePC,
			EntityID:   &created.ID,
			Details: map[string]any{
				"hostname": created.Hostname,
				"token_id": token.ID.String(),
			},
		}); err != nil {
			return fmt.Errorf("audit device register: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.PC{}, err
	}

	s.log.InfoContext(ctx, "device registered",
		slog.String("pc_id", created.ID.String()),
		slog.String("unique_id", created.UniqueID),
		slog.String("hostname", created.Hostname),
	)

	return created, nil
}
