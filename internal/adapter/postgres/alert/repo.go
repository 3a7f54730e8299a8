// Package alert implements the alert repository using PostgreSQL.
// Alerts are soft-deleted by the API; hard deletion happens only through
// the retention pruning used by the cleanup job.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// normalize applies defaults and clamps pagination values.
func normalize(f domain.AlertFilter) domain.AlertFilter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// conditions builds the WHERE clauses shared by the list and count queries.
func conditions(f domain.AlertFilter, sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.UnacknowledgedOnly {
		sb = sb.Where("acknowledged_at IS NULL")
	}
	if !f.IncludeDeleted {
		sb = sb.Where(squirrel.Eq{"deleted": false})
	}
	if f.Kind != nil {
		sb = sb.Where(squirrel.Eq{"kind": string(*f.Kind)})
	}
	if f.PeripheralID != nil {
		sb = sb.Where(squirrel.Eq{"peripheral_id": *f.PeripheralID})
	}
	return sb
}

// Repo provides alert persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new alert repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const alertColumns = `id, peripheral_id, kind, message, created_at, acknowledged_at, acknowledged_by, deleted`

const createSQL = `
INSERT INTO alerts (id, peripheral_id, kind, message, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + alertColumns

const getByIDSQL = `
SELECT ` + alertColumns + `
FROM alerts
WHERE id = $1`

const acknowledgeSQL = `
UPDATE alerts
SET acknowledged_at = $2, acknowledged_by = $3
WHERE id = $1 AND acknowledged_at IS NULL AND deleted = FALSE`

const setDeletedSQL = `
UPDATE alerts
SET deleted = $2
WHERE id = $1`

const listSinceSQL = `
SELECT ` + alertColumns + `
FROM alerts
WHERE created_at > $1 AND deleted = FALSE
ORDER BY created_at, id`

const countUnacknowledgedSQL = `
SELECT count(*) FROM alerts WHERE acknowledged_at IS NULL AND deleted = FALSE`

const deleteOlderThanSQL = `
DELETE FROM alerts WHERE created_at < $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an alert by primary key, including soft-deleted ones.
// Returns domain.ErrNotFound if the alert does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Alert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAlert(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return domain.Alert{}, mapError(err, "alert", id)
	}

	return a, nil
}

// List returns alerts matching the filter, newest first, plus the total
// match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, int, error) {
	f = normalize(f)
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := conditions(f, qb.Select("count(*)").From("alerts")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build alert count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	listSQL, listArgs, err := conditions(f, qb.Select(alertColumns).From("alerts")).
		OrderBy("created_at DESC", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build alert list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}

	return alerts, total, nil
}

// ListSince returns non-deleted alerts created strictly after the given time,
// oldest first. Feeds the alert stream.
func (r *Repo) ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSinceSQL, after)
	if err != nil {
		return nil, fmt.Errorf("list alerts since: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, fmt.Errorf("list alerts since: %w", err)
	}

	return alerts, nil
}

// CountUnacknowledged returns the number of open (unacknowledged, not
// deleted) alerts.
func (r *Repo) CountUnacknowledged(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countUnacknowledgedSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unacknowledged alerts: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new alert and returns the persisted row.
func (r *Repo) Create(ctx context.Context, a *domain.Alert) (domain.Alert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanAlert(querier.QueryRow(ctx, createSQL,
		a.ID, a.PeripheralID, string(a.Kind), a.Message, a.CreatedAt,
	))
	if err != nil {
		return domain.Alert{}, mapError(err, "alert", a.ID)
	}

	return created, nil
}

// Acknowledge records who acknowledged the alert and when. Idempotent: an
// already-acknowledged alert keeps its original acknowledgement and no error
// is returned. Returns domain.ErrNotFound if the alert does not exist or is
// soft-deleted.
func (r *Repo) Acknowledge(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, acknowledgeSQL, id, at, by)
	if err != nil {
		return mapError(err, "alert", id)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish "already acknowledged" (fine) from "missing or deleted".
		a, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Deleted {
			return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
		}
	}

	return nil
}

// SoftDelete marks the alert deleted. Returns domain.ErrNotFound if the
// alert does not exist.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, true)
}

// Restore clears the soft-delete flag. Returns domain.ErrNotFound if the
// alert does not exist.
func (r *Repo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, false)
}

func (r *Repo) setDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setDeletedSQL, id, deleted)
	if err != nil {
		return mapError(err, "alert", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteOlderThan hard-deletes alerts created before the cutoff, regardless
// of state. Used by the retention cleanup job. Returns the number deleted.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteOlderThanSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old alerts: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAlert(row pgx.Row) (domain.Alert, error) {
	var (
		a    domain.Alert
		kind string
	)

	if err := row.Scan(&a.ID, &a.PeripheralID, &kind, &a.Message, &a.CreatedAt,
		&a.AcknowledgedAt, &a.AcknowledgedBy, &a.Deleted); err != nil {
		return domain.Alert{}, err
	}

	a.Kind = domain.PeripheralStatus(kind)
	return a, nil
}

func scanAlerts(rows pgx.Rows) ([]domain.Alert, error) {
	var alerts []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return alerts, nil
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
