package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mfadvisor-backend/internal/models"
)

// RunRepo persists crew run audit records.
type RunRepo struct {
	pool *pgxpool.Pool
}

func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

func (r *RunRepo) Insert(ctx context.Context, run *models.Run) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO runs (id, user_prompt, inputs, reply, status, error_message, started_at, finished_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, run.ID, run.UserPrompt, run.InputsJSON, run.Reply, run.Status, run.ErrorMessage,
		run.StartedAt, run.FinishedAt, run.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *RunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	var run models.Run
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_prompt, inputs, reply, status, error_message, started_at, finished_at, duration_ms
		FROM runs WHERE id = $1
	`, id).Scan(&run.ID, &run.UserPrompt, &run.InputsJSON, &run.Reply, &run.Status,
		&run.ErrorMessage, &run.StartedAt, &run.FinishedAt, &run.DurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// ListRecent returns the latest runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_prompt, inputs, reply, status, error_message, started_at, finished_at, duration_ms
		FROM runs ORDER BY started_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.UserPrompt, &run.InputsJSON, &run.Reply, &run.Status,
			&run.ErrorMessage, &run.StartedAt, &run.FinishedAt, &run.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
