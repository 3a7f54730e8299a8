// Package usbevent implements the USB event repository using PostgreSQL.
// Events are an append-only log of agent reports; the only mutation is the
// retention pruning used by the cleanup job.
package usbevent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Repo provides USB event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new USB event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO usb_events (id, pc_id, peripheral_unique_id, kind, reported_at, received_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, pc_id, peripheral_unique_id, kind, reported_at, received_at`

// Window counts use received_at: the server clock is authoritative, agent
// clocks drift.
const countSinceSQL = `
SELECT
    count(*) FILTER (WHERE kind = 'connected'),
    count(*) FILTER (WHERE kind = 'disconnected')
FROM usb_events
WHERE peripheral_unique_id = $1 AND received_at >= $2`

const deleteOlderThanSQL = `
DELETE FROM usb_events WHERE received_at < $1`

// Insert stores a reported event and returns the persisted row.
// Returns domain.ErrNotFound if the PC does not exist.
func (r *Repo) Insert(ctx context.Context, e *domain.USBEvent) (domain.USBEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		stored domain.USBEvent
		kind   string
	)
	err := querier.QueryRow(ctx, insertSQL,
		e.ID, e.PCID, e.PeripheralUniqueID, string(e.Kind), e.ReportedAt, e.ReceivedAt,
	).Scan(&stored.ID, &stored.PCID, &stored.PeripheralUniqueID, &kind,
		&stored.ReportedAt, &stored.ReceivedAt)
	if err != nil {
		return domain.USBEvent{}, mapError(err, fmt.Sprintf("usb event for %q", e.PeripheralUniqueID))
	}

	stored.Kind = domain.EventKind(kind)
	return stored, nil
}

// CountSince returns how many connect and disconnect events the peripheral
// accumulated since the given server time.
func (r *Repo) CountSince(ctx context.Context, peripheralUniqueID string, since time.Time) (connects, disconnects int, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	err = querier.QueryRow(ctx, countSinceSQL, peripheralUniqueID, since).
		Scan(&connects, &disconnects)
	if err != nil {
		return 0, 0, fmt.Errorf("count usb events for %q: %w", peripheralUniqueID, err)
	}

	return connects, disconnects, nil
}

// DeleteOlderThan removes events received before the cutoff. Used by the
// retention cleanup job. Returns the number deleted.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteOlderThanSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old usb events: %w", err)
	}

	return int(tag.RowsAffected()), nil
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
