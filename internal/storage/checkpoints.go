package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/code-sentry/internal/workflow"
)

type checkpointStore struct {
	db *sqlx.DB
}

// NewCheckpointStore returns a postgres-backed workflow.CheckpointStore.
func NewCheckpointStore(db *sqlx.DB) workflow.CheckpointStore {
	return &checkpointStore{db: db}
}

const runColumns = `id, workflow, run_key, payload, state, error, created_at, updated_at`

func (s *checkpointStore) CreateRun(ctx context.Context, run *workflow.Run) error {
	query := `
		INSERT INTO workflow_runs (id, workflow, run_key, payload, state, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	// jsonb columns take text; lib/pq would send a []byte as bytea.
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Workflow, run.Key, string(run.Payload), run.State, run.Error, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workflow run %s: %w", run.ID, err)
	}
	return nil
}

func (s *checkpointStore) GetRun(ctx context.Context, id string) (*workflow.Run, error) {
	var run workflow.Run
	err := s.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM workflow_runs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get workflow run %s: %w", id, err)
	}
	return &run, nil
}

func (s *checkpointStore) UpdateRunState(ctx context.Context, id string, state workflow.State, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflow_runs SET state = $2, error = $3, updated_at = NOW() WHERE id = $1`,
		id, state, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update workflow run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return workflow.ErrRunNotFound
	}
	return nil
}

func (s *checkpointStore) SaveCheckpoint(ctx context.Context, runID, step string, result []byte) error {
	query := `
		INSERT INTO workflow_checkpoints (run_id, step, result)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, step) DO UPDATE SET result = EXCLUDED.result`

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkpoint transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query, runID, step, string(result)); err != nil {
		return fmt.Errorf("failed to save checkpoint %s for run %s: %w", step, runID, err)
	}
	// A checkpoint counts as progress for the recovery sweeper.
	if _, err := tx.ExecContext(ctx, `UPDATE workflow_runs SET updated_at = NOW() WHERE id = $1`, runID); err != nil {
		return fmt.Errorf("failed to touch workflow run %s: %w", runID, err)
	}
	return tx.Commit()
}

func (s *checkpointStore) LoadCheckpoints(ctx context.Context, runID string) (map[string][]byte, error) {
	var rows []struct {
		Step   string `db:"step"`
		Result []byte `db:"result"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT step, result FROM workflow_checkpoints WHERE run_id = $1`, runID); err != nil {
		return nil, fmt.Errorf("failed to load checkpoints for run %s: %w", runID, err)
	}

	out := make(map[string][]byte, len(rows))
	for _, r := range rows {
		out[r.Step] = r.Result
	}
	return out, nil
}

func (s *checkpointStore) ListStaleRuns(ctx context.Context, updatedBefore time.Time) ([]*workflow.Run, error) {
	query := `SELECT ` + runColumns + ` FROM workflow_runs
		WHERE state NOT IN ($1, $2) AND updated_at < $3
		ORDER BY created_at`

	var runs []*workflow.Run
	if err := s.db.SelectContext(ctx, &runs, query, workflow.StateCompleted, workflow.StateFailed, updatedBefore); err != nil {
		return nil, fmt.Errorf("failed to list stale workflow runs: %w", err)
	}
	return runs, nil
}
