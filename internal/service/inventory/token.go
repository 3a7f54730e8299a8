package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/auth"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// IssueRegistrationToken creates a one-time PC registration token. The raw
// value is returned here and never stored; losing it means issuing a new
// token.
func (s *Service) IssueRegistrationToken(ctx context.Context, input IssueTokenInput) (*IssuedToken, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = s.defaultTokenTTL()
	}

	raw, hash, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now().UTC()

	var created domain.RegistrationToken
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.tokens.Create(txCtx, &domain.RegistrationToken{
			ID:        uuid.New(),
			TokenHash: hash,
			Note:      input.Note,
			CreatedBy: actor,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create registration token: %w", err)
		}

		if err := s.audit.Log(txCtx, &domain.AuditRecord{
			Actor:      actor,
			Action:     domain.AuditActionTokenIssue,
			EntityType: domain.EntityTypeToken,
			EntityID:   &created.ID,
			Details:    map[string]any{"expires_at": created.ExpiresAt.Format(time.RFC3339)},
		}); err != nil {
			return fmt.Errorf("audit token issue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "registration token issued",
		slog.String("actor", actor),
		slog.String("token_id", created.ID.String()),
		slog.Time("expires_at", created.ExpiresAt),
	)

	return &IssuedToken{Raw: raw, Token: created}, nil
}
