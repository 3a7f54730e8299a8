// Package lab implements the lab repository using PostgreSQL.
package lab

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

// Repo provides lab persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lab repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const labColumns = `id, name, room, created_at`

const createSQL = `
INSERT INTO labs (id, name, room, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + labColumns

const getByIDSQL = `
SELECT ` + labColumns + `
FROM labs
WHERE id = $1`

const listSQL = `
SELECT ` + labColumns + `
FROM labs
ORDER BY name`

// GetByID returns a lab by primary key.
// Returns domain.ErrNotFound if the lab does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lab, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	lab, err := scanLab(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return domain.Lab{}, mapError(err, fmt.Sprintf("lab %s", id))
	}

	return lab, nil
}

// List returns all labs ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Lab, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	defer rows.Close()

	labs := make([]domain.Lab, 0)
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, fmt.Errorf("list labs: %w", err)
		}
		labs = append(labs, lab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}

	return labs, nil
}

// Create inserts a new lab and returns the persisted row.
// Returns domain.ErrAlreadyExists if the name is taken.
func (r *Repo) Create(ctx context.Context, lab *domain.Lab) (domain.Lab, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanLab(querier.QueryRow(ctx, createSQL,
		lab.ID, lab.Name, lab.Room, lab.CreatedAt,
	))
	if err != nil {
		return domain.Lab{}, mapError(err, fmt.Sprintf("lab %q", lab.Name))
	}

	return created, nil
}

func scanLab(row pgx.Row) (domain.Lab, error) {
	var lab domain.Lab
	if err := row.Scan(&lab.ID, &lab.Name, &lab.Room, &lab.CreatedAt); err != nil {
		return domain.Lab{}, err
	}
	return lab, nil
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
