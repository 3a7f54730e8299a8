// Package statushistory implements the append-only status history repository
// using PostgreSQL. Rows are never updated or deleted through this package.
package statushistory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Repo provides status history persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new status history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const appendSQL = `
INSERT INTO peripheral_status_history (id, peripheral_id, old_status, new_status, reason, changed_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, peripheral_id, old_status, new_status, reason, changed_by, created_at`

const listByPeripheralSQL = `
SELECT id, peripheral_id, old_status, new_status, reason, changed_by, created_at
FROM peripheral_status_history
WHERE peripheral_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

const countByPeripheralSQL = `
SELECT count(*) FROM peripheral_status_history WHERE peripheral_id = $1`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Append inserts one history entry and returns the persisted row.
func (r *Repo) Append(ctx context.Context, e *domain.StatusHistoryEntry) (domain.StatusHistoryEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanEntry(querier.QueryRow(ctx, appendSQL,
		e.ID, e.PeripheralID, statusText(e.OldStatus), string(e.NewStatus),
		e.Reason, e.ChangedBy, e.CreatedAt,
	))
	if err != nil {
		return domain.StatusHistoryEntry{}, mapError(err, "status_history", e.ID)
	}

	return created, nil
}

// ListByPeripheral returns history entries for a peripheral, newest first,
// with the total entry count for pagination.
func (r *Repo) ListByPeripheral(ctx context.Context, peripheralID uuid.UUID, limit, offset int) ([]domain.StatusHistoryEntry, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByPeripheralSQL, peripheralID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count status_history: %w", err)
	}

	rows, err := querier.Query(ctx, listByPeripheralSQL, peripheralID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list status_history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan status_history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate status_history: %w", err)
	}

	if entries == nil {
		entries = []domain.StatusHistoryEntry{}
	}

	return entries, total, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (domain.StatusHistoryEntry, error) {
	var (
		e         domain.StatusHistoryEntry
		oldStatus *string
		newStatus string
	)

	if err := row.Scan(&e.ID, &e.PeripheralID, &oldStatus, &newStatus,
		&e.Reason, &e.ChangedBy, &e.CreatedAt); err != nil {
		return domain.StatusHistoryEntry{}, err
	}

	if oldStatus != nil {
		s := domain.PeripheralStatus(*oldStatus)
		e.OldStatus = &s
	}
	e.NewStatus = domain.PeripheralStatus(newStatus)

	return e, nil
}

// statusText converts a *PeripheralStatus to *string (nil -> NULL).
func statusText(s *domain.PeripheralStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
