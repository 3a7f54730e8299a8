// Package regtoken implements the registration token repository using
// PostgreSQL. Tokens are stored hashed; the raw value never touches the
// database.
package regtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Repo provides registration token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new registration token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tokenColumns = `id, token_hash, note, created_by, expires_at, created_at, used_at, used_by_pc_id`

const createSQL = `
INSERT INTO registration_tokens (id, token_hash, note, created_by, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + tokenColumns

const getByHashSQL = `
SELECT ` + tokenColumns + `
FROM registration_tokens
WHERE token_hash = $1`

const markUsedSQL = `
UPDATE registration_tokens
SET used_at = $2, used_by_pc_id = $3
WHERE id = $1 AND used_at IS NULL`

// Expired tokens that never registered anything carry no provenance worth
// keeping; used ones stay for the registration trail.
const deleteExpiredSQL = `
DELETE FROM registration_tokens
WHERE expires_at < $1 AND used_at IS NULL`

// GetByHash returns a token by the SHA-256 hex hash of its raw value.
// Returns domain.ErrNotFound if no token has that hash.
func (r *Repo) GetByHash(ctx context.Context, hash string) (domain.RegistrationToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	token, err := scanToken(querier.QueryRow(ctx, getByHashSQL, hash))
	if err != nil {
		return domain.RegistrationToken{}, mapError(err, "registration token")
	}

	return token, nil
}

// Create inserts a new token and returns the persisted row.
// Returns domain.ErrAlreadyExists on a hash collision.
func (r *Repo) Create(ctx context.Context, token *domain.RegistrationToken) (domain.RegistrationToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanToken(querier.QueryRow(ctx, createSQL,
		token.ID, token.TokenHash, token.Note, token.CreatedBy, token.ExpiresAt, token.CreatedAt,
	))
	if err != nil {
		return domain.RegistrationToken{}, mapError(err, "registration token")
	}

	return created, nil
}

// MarkUsed records the token as consumed by the given PC. The WHERE guard
// makes consumption race-safe: returns domain.ErrNotFound when the token is
// missing or was already used, so concurrent registrations cannot share one
// token.
func (r *Repo) MarkUsed(ctx context.Context, id uuid.UUID, pcID uuid.UUID, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markUsedSQL, id, at, pcID)
	if err != nil {
		return mapError(err, fmt.Sprintf("registration token %s", id))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration token %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteExpired removes unused tokens that expired before the given time.
// Returns the number deleted.
func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired registration tokens: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanToken(row pgx.Row) (domain.RegistrationToken, error) {
	var token domain.RegistrationToken
	if err := row.Scan(&token.ID, &token.TokenHash, &token.Note, &token.CreatedBy,
		&token.ExpiresAt, &token.CreatedAt, &token.UsedAt, &token.UsedByPCID); err != nil {
		return domain.RegistrationToken{}, err
	}
	return token, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, subject string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", subject, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", subject, err)
}
