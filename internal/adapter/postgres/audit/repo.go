// Package audit implements the audit log repository using PostgreSQL.
// The log is append-only; records are never updated or deleted. Fixed
// queries use raw SQL; the filtered listing is built with squirrel.
package audit

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
func normalize(f domain.AuditFilter) domain.AuditFilter {
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
func conditions(f domain.AuditFilter, sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.Actor != nil {
		sb = sb.Where(squirrel.Eq{"actor": *f.Actor})
	}
	if f.Action != nil {
		sb = sb.Where(squirrel.Eq{"action": string(*f.Action)})
	}
	if f.EntityType != nil {
		sb = sb.Where(squirrel.Eq{"entity_type": string(*f.EntityType)})
	}
	if f.EntityID != nil {
		sb = sb.Where(squirrel.Eq{"entity_id": *f.EntityID})
	}
	return sb
}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const auditColumns = `id, actor, action, entity_type, entity_id, details, created_at`

const createSQL = `
INSERT INTO audit_log (id, actor, action, entity_type, entity_id, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + auditColumns

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends a record to the audit log and returns the persisted row.
// A zero ID and CreatedAt are stamped here so callers only supply the
// semantic fields.
func (r *Repo) Create(ctx context.Context, rec *domain.AuditRecord) (domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	created, err := scanRecord(querier.QueryRow(ctx, createSQL,
		id, rec.Actor, string(rec.Action), string(rec.EntityType),
		rec.EntityID, rec.Details, createdAt,
	))
	if err != nil {
		return domain.AuditRecord{}, mapError(err, fmt.Sprintf("audit record %s", id))
	}

	return created, nil
}

// Log appends a record without returning it (fire-and-forget).
func (r *Repo) Log(ctx context.Context, rec *domain.AuditRecord) error {
	_, err := r.Create(ctx, rec)
	return err
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns audit records matching the filter, newest first, plus the
// total match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error) {
	f = normalize(f)
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := conditions(f, qb.Select("count(*)").From("audit_log")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit records: %w", err)
	}

	listSQL, listArgs, err := conditions(f, qb.Select(auditColumns).From("audit_log")).
		OrderBy("created_at DESC", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list audit records: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list audit records: %w", err)
	}

	return records, total, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanRecord(row pgx.Row) (domain.AuditRecord, error) {
	var (
		rec        domain.AuditRecord
		action     string
		entityType string
	)

	if err := row.Scan(&rec.ID, &rec.Actor, &action, &entityType,
		&rec.EntityID, &rec.Details, &rec.CreatedAt); err != nil {
		return domain.AuditRecord{}, err
	}

	rec.Action = domain.AuditAction(action)
	rec.EntityType = domain.EntityType(entityType)
	return rec, nil
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
