// Package peripheral implements the Peripheral repository using PostgreSQL.
// Fixed queries use raw SQL; the filtered listing is built with squirrel.
package peripheral

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

// Repo provides peripheral persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new peripheral repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// qb builds squirrel queries with PostgreSQL placeholders.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const peripheralColumns = `id, pc_id, unique_id, name, kind, status,
       status_updated_by, status_updated_at, status_reason, remark,
       created_at, updated_at`

const getByIDSQL = `
SELECT ` + peripheralColumns + `
FROM peripherals
WHERE id = $1`

const getByUniqueIDSQL = `
SELECT ` + peripheralColumns + `
FROM peripherals
WHERE unique_id = $1`

const lockByIDSQL = `
SELECT ` + peripheralColumns + `
FROM peripherals
WHERE id = $1
FOR UPDATE`

const createSQL = `
INSERT INTO peripherals (id, pc_id, unique_id, name, kind, remark, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + peripheralColumns

const updateStatusSQL = `
UPDATE peripherals
SET status = $2, status_updated_by = $3, status_updated_at = $4, status_reason = $5
WHERE id = $1`

const updateRemarkSQL = `
UPDATE peripherals
SET remark = $2
WHERE id = $1`

const listByPCSQL = `
SELECT ` + peripheralColumns + `
FROM peripherals
WHERE pc_id = $1
ORDER BY created_at`

const listUnpluggedBeforeSQL = `
SELECT ` + peripheralColumns + `
FROM peripherals
WHERE status = 'unplugged' AND status_updated_at < $1
ORDER BY status_updated_at`

const countByLabSQL = `
SELECT COALESCE(l.name, ''), count(p.id)
FROM peripherals p
JOIN pcs ON p.pc_id = pcs.id
LEFT JOIN labs l ON pcs.lab_id = l.id
GROUP BY l.name
ORDER BY l.name`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a peripheral by primary key.
// Returns domain.ErrNotFound if the peripheral does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPeripheral(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return domain.Peripheral{}, mapError(err, "peripheral", id)
	}

	return p, nil
}

// GetByUniqueID returns a peripheral by its stable hardware identifier.
// Returns domain.ErrNotFound if no peripheral carries that unique_id.
func (r *Repo) GetByUniqueID(ctx context.Context, uniqueID string) (domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPeripheral(querier.QueryRow(ctx, getByUniqueIDSQL, uniqueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Peripheral{}, fmt.Errorf("peripheral %q: %w", uniqueID, domain.ErrNotFound)
		}
		return domain.Peripheral{}, fmt.Errorf("get peripheral by unique_id %q: %w", uniqueID, err)
	}

	return p, nil
}

// LockByID returns a peripheral by primary key with a row lock (FOR UPDATE).
// Must be called inside TxManager.RunInTx; outside a transaction the lock
// is released immediately and serializes nothing.
func (r *Repo) LockByID(ctx context.Context, id uuid.UUID) (domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPeripheral(querier.QueryRow(ctx, lockByIDSQL, id))
	if err != nil {
		return domain.Peripheral{}, mapError(err, "peripheral", id)
	}

	return p, nil
}

// ListByPC returns all peripherals attached to a PC, oldest first.
func (r *Repo) ListByPC(ctx context.Context, pcID uuid.UUID) ([]domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByPCSQL, pcID)
	if err != nil {
		return nil, fmt.Errorf("list peripherals by pc: %w", err)
	}
	defer rows.Close()

	peripherals, err := scanPeripherals(rows)
	if err != nil {
		return nil, fmt.Errorf("list peripherals by pc: %w", err)
	}

	return peripherals, nil
}

// List returns peripherals matching the filter, newest first, plus the total
// match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.PeripheralFilter) ([]domain.Peripheral, int, error) {
	f = normalize(f)
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := countQuery(f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build peripheral count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count peripherals: %w", err)
	}

	listSQL, listArgs, err := listQuery(f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build peripheral list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list peripherals: %w", err)
	}
	defer rows.Close()

	peripherals, err := scanPeripherals(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list peripherals: %w", err)
	}

	return peripherals, total, nil
}

// ListUnpluggedBefore returns peripherals that have been unplugged since
// before the cutoff. Used by the missing-sweep.
func (r *Repo) ListUnpluggedBefore(ctx context.Context, cutoff time.Time) ([]domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listUnpluggedBeforeSQL, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list unplugged peripherals: %w", err)
	}
	defer rows.Close()

	peripherals, err := scanPeripherals(rows)
	if err != nil {
		return nil, fmt.Errorf("list unplugged peripherals: %w", err)
	}

	return peripherals, nil
}

// Count returns the number of peripherals, optionally scoped to a lab.
func (r *Repo) Count(ctx context.Context, labID *uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sb := qb.Select("count(*)").From("peripherals p")
	if labID != nil {
		sb = sb.Join("pcs ON p.pc_id = pcs.id").Where(squirrel.Eq{"pcs.lab_id": *labID})
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build peripheral count query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count peripherals: %w", err)
	}

	return count, nil
}

// CountByStatus returns peripheral counts grouped by status, optionally
// scoped to a lab. Peripherals with no status assigned yet are not included;
// only non-zero groups are returned.
func (r *Repo) CountByStatus(ctx context.Context, labID *uuid.UUID) ([]domain.StatusCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sb := qb.Select("p.status", "count(*)").
		From("peripherals p").
		Where("p.status IS NOT NULL").
		GroupBy("p.status")
	if labID != nil {
		sb = sb.Join("pcs ON p.pc_id = pcs.id").Where(squirrel.Eq{"pcs.lab_id": *labID})
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status count query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count peripherals by status: %w", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var sc domain.StatusCount
		var status string
		if err := rows.Scan(&status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		sc.Status = domain.PeripheralStatus(status)
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	if counts == nil {
		counts = []domain.StatusCount{}
	}

	return counts, nil
}

// CountByLab returns peripheral counts grouped by lab name. PCs outside any
// lab group under the empty name.
func (r *Repo) CountByLab(ctx context.Context) ([]domain.LabCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, countByLabSQL)
	if err != nil {
		return nil, fmt.Errorf("count peripherals by lab: %w", err)
	}
	defer rows.Close()

	var counts []domain.LabCount
	for rows.Next() {
		var lc domain.LabCount
		if err := rows.Scan(&lc.LabName, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan lab count: %w", err)
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lab counts: %w", err)
	}

	if counts == nil {
		counts = []domain.LabCount{}
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new peripheral with no status assigned (status NULL).
// Duplicate unique_id results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, p *domain.Peripheral) (domain.Peripheral, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanPeripheral(querier.QueryRow(ctx, createSQL,
		p.ID, p.PCID, p.UniqueID, p.Name, string(p.Kind), p.Remark, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return domain.Peripheral{}, mapError(err, "peripheral", p.ID)
	}

	return created, nil
}

// UpdateStatus writes the status fields set by a transition.
// Returns domain.ErrNotFound if the peripheral does not exist.
// updated_at is maintained by a trigger.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, params domain.StatusUpdateParams) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateStatusSQL,
		id, string(params.Status), params.UpdatedBy, params.UpdatedAt, params.Reason,
	)
	if err != nil {
		return mapError(err, "peripheral", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("peripheral %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateRemark sets the free-text remark (nil clears it).
// Returns domain.ErrNotFound if the peripheral does not exist.
func (r *Repo) UpdateRemark(ctx context.Context, id uuid.UUID, remark *string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateRemarkSQL, id, remark)
	if err != nil {
		return mapError(err, "peripheral", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("peripheral %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanPeripheral scans a single peripheral from a row in column order.
func scanPeripheral(row pgx.Row) (domain.Peripheral, error) {
	var (
		p      domain.Peripheral
		kind   string
		status *string
	)

	if err := row.Scan(&p.ID, &p.PCID, &p.UniqueID, &p.Name, &kind, &status,
		&p.StatusUpdatedBy, &p.StatusUpdatedAt, &p.StatusReason, &p.Remark,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Peripheral{}, err
	}

	p.Kind = domain.PeripheralKind(kind)
	if status != nil {
		s := domain.PeripheralStatus(*status)
		p.Status = &s
	}

	return p, nil
}

// scanPeripherals scans multiple rows into a domain.Peripheral slice.
func scanPeripherals(rows pgx.Rows) ([]domain.Peripheral, error) {
	var peripherals []domain.Peripheral
	for rows.Next() {
		p, err := scanPeripheral(rows)
		if err != nil {
			return nil, err
		}
		peripherals = append(peripherals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if peripherals == nil {
		peripherals = []domain.Peripheral{}
	}

	return peripherals, nil
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
