package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunRepository records lifecycle controller runs so consecutive runs
// have continuous, auditable as-of boundaries.
type RunRepository struct {
	DB *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{DB: db}
}

func (r *RunRepository) LastRun(ctx context.Context) (*time.Time, error) {
	query := `SELECT as_of FROM lifecycle_runs ORDER BY as_of DESC LIMIT 1`

	var asOf time.Time
	err := r.DB.QueryRowContext(ctx, query).Scan(&asOf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read last run: %w", err)
	}

	return &asOf, nil
}

func (r *RunRepository) RecordRun(ctx context.Context, asOf time.Time, flagged, deactivated int) error {
	query := `
		INSERT INTO lifecycle_runs (as_of, flagged, deactivated, ran_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.DB.ExecContext(ctx, query, asOf, flagged, deactivated)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}
