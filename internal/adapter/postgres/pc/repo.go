// Package pc implements the PC repository using PostgreSQL.
package pc

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

// Repo provides PC persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new PC repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const pcColumns = `id, lab_id, unique_id, hostname, registered_at, last_seen_at`

const createSQL = `
INSERT INTO pcs (id, lab_id, unique_id, hostname, registered_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + pcColumns

const getByIDSQL = `
SELECT ` + pcColumns + `
FROM pcs
WHERE id = $1`

const getByUniqueIDSQL = `
SELECT ` + pcColumns + `
FROM pcs
WHERE unique_id = $1`

const listSQL = `
SELECT ` + pcColumns + `
FROM pcs
ORDER BY hostname, id`

const listByLabSQL = `
SELECT ` + pcColumns + `
FROM pcs
WHERE lab_id = $1
ORDER BY hostname, id`

const touchLastSeenSQL = `
UPDATE pcs
SET last_seen_at = $2
WHERE id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a PC by primary key.
// Returns domain.ErrNotFound if the PC does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.PC, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	pc, err := scanPC(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return domain.PC{}, mapError(err, fmt.Sprintf("pc %s", id))
	}

	return pc, nil
}

// GetByUniqueID returns a PC by its agent-reported unique identifier.
// Returns domain.ErrNotFound if no PC has that identifier.
func (r *Repo) GetByUniqueID(ctx context.Context, uniqueID string) (domain.PC, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	pc, err := scanPC(querier.QueryRow(ctx, getByUniqueIDSQL, uniqueID))
	if err != nil {
		return domain.PC{}, mapError(err, fmt.Sprintf("pc %q", uniqueID))
	}

	return pc, nil
}

// List returns PCs ordered by hostname. A non-nil labID restricts the
// result to one lab.
func (r *Repo) List(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		rows pgx.Rows
		err  error
	)
	if labID != nil {
		rows, err = querier.Query(ctx, listByLabSQL, *labID)
	} else {
		rows, err = querier.Query(ctx, listSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("list pcs: %w", err)
	}
	defer rows.Close()

	pcs := make([]domain.PC, 0)
	for rows.Next() {
		pc, err := scanPC(rows)
		if err != nil {
			return nil, fmt.Errorf("list pcs: %w", err)
		}
		pcs = append(pcs, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pcs: %w", err)
	}

	return pcs, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new PC and returns the persisted row.
// Returns domain.ErrAlreadyExists if the unique identifier is taken and
// domain.ErrNotFound if the referenced lab does not exist.
func (r *Repo) Create(ctx context.Context, pc *domain.PC) (domain.PC, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanPC(querier.QueryRow(ctx, createSQL,
		pc.ID, pc.LabID, pc.UniqueID, pc.Hostname, pc.RegisteredAt,
	))
	if err != nil {
		return domain.PC{}, mapError(err, fmt.Sprintf("pc %q", pc.UniqueID))
	}

	return created, nil
}

// TouchLastSeen records the last time the PC's agent reported in.
// Returns domain.ErrNotFound if the PC does not exist.
func (r *Repo) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, touchLastSeenSQL, id, at)
	if err != nil {
		return mapError(err, fmt.Sprintf("pc %s", id))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pc %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanPC(row pgx.Row) (domain.PC, error) {
	var pc domain.PC
	if err := row.Scan(&pc.ID, &pc.LabID, &pc.UniqueID, &pc.Hostname,
		&pc.RegisteredAt, &pc.LastSeenAt); err != nil {
		return domain.PC{}, err
	}
	return pc, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

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
