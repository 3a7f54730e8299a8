// Package settings implements the system settings repository using
// PostgreSQL.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Repo provides settings persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const settingColumns = `key, value, updated_by, updated_at`

const getSQL = `
SELECT ` + settingColumns + `
FROM system_settings
WHERE key = $1`

const listSQL = `
SELECT ` + settingColumns + `
FROM system_settings
ORDER BY key`

const upsertSQL = `
INSERT INTO system_settings (key, value, updated_by, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
RETURNING ` + settingColumns

// Get returns one setting by key.
// Returns domain.ErrNotFound if the key has no stored value.
func (r *Repo) Get(ctx context.Context, key string) (domain.Setting, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSetting(querier.QueryRow(ctx, getSQL, key))
	if err != nil {
		return domain.Setting{}, mapError(err, fmt.Sprintf("setting %q", key))
	}

	return s, nil
}

// List returns all stored settings ordered by key.
func (r *Repo) List(ctx context.Context) ([]domain.Setting, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make([]domain.Setting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("list settings: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return settings, nil
}

// Upsert stores the value for a key, inserting or overwriting, and returns
// the persisted row.
func (r *Repo) Upsert(ctx context.Context, s *domain.Setting) (domain.Setting, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	stored, err := scanSetting(querier.QueryRow(ctx, upsertSQL,
		s.Key, s.Value, s.UpdatedBy, s.UpdatedAt,
	))
	if err != nil {
		return domain.Setting{}, mapError(err, fmt.Sprintf("setting %q", s.Key))
	}

	return stored, nil
}

func scanSetting(row pgx.Row) (domain.Setting, error) {
	var s domain.Setting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return domain.Setting{}, err
	}
	return s, nil
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
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", subject, err)
}
