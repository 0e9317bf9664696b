package mysql

import (
	"auction-settlement/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type MySQLSweepRunRepository struct {
	db *sql.DB
}

func NewMySQLSweepRunRepository(db *sql.DB) *MySQLSweepRunRepository {
	return &MySQLSweepRunRepository{db: db}
}

func (r *MySQLSweepRunRepository) CreateRun(ctx context.Context, run *domain.SweepRun) error {
	query := `
        INSERT INTO sweep_runs (id, started_at, status)
        VALUES (?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt, string(run.Status))
	if err != nil {
		return fmt.Errorf("%w: create sweep run: %w", domain.ErrRepository, err)
	}
	return nil
}

func (r *MySQLSweepRunRepository) FinishRun(ctx context.Context, run *domain.SweepRun) error {
	query := `
        UPDATE sweep_runs
        SET finished_at = ?, auctions_closed = ?, payments_generated = ?, status = ?, error_message = ?
        WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		run.FinishedAt, run.AuctionsClosed, run.PaymentsGenerated,
		string(run.Status), run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("%w: finish sweep run %s: %w", domain.ErrRepository, run.ID, err)
	}
	return nil
}

func (r *MySQLSweepRunRepository) GetRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	query := `
        SELECT id, started_at, finished_at, auctions_closed, payments_generated, status, error_message
        FROM sweep_runs WHERE id = ?
    `

	var run domain.SweepRun
	var finishedAt sql.NullTime
	var status string

	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&run.ID, &run.StartedAt, &finishedAt,
		&run.AuctionsClosed, &run.PaymentsGenerated, &status, &run.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSweepNotFound
		}
		return nil, fmt.Errorf("%w: get sweep run %s: %w", domain.ErrRepository, runID, err)
	}

	run.Status = domain.SweepRunStatus(status)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}
