package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-sentry/internal/workflow"
)

func TestCheckpointStore_CreateAndGetRun(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)
	now := time.Now().UTC()

	run := &workflow.Run{
		ID:        "run-1",
		Workflow:  "review-pull-request",
		Key:       "acme/widgets#42",
		Payload:   []byte(`{"owner":"acme"}`),
		State:     workflow.StateQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	mock.ExpectExec(`INSERT INTO workflow_runs`).
		WithArgs("run-1", "review-pull-request", "acme/widgets#42", `{"owner":"acme"}`, workflow.StateQueued, "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.CreateRun(context.Background(), run))

	cols := []string{"id", "workflow", "run_key", "payload", "state", "error", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM workflow_runs WHERE id = \$1`).WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("run-1", "review-pull-request", "acme/widgets#42", []byte(`{"owner":"acme"}`), "generating", "", now, now))

	got, err := store.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.State("generating"), got.State)
	assert.JSONEq(t, `{"owner":"acme"}`, string(got.Payload))
}

func TestCheckpointStore_GetRunNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)

	mock.ExpectQuery(`FROM workflow_runs`).WithArgs("nope").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, workflow.ErrRunNotFound)
}

func TestCheckpointStore_SaveCheckpointTouchesRun(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO workflow_checkpoints (.+) ON CONFLICT \(run_id, step\)`).
		WithArgs("run-1", "fetch-pr-data", `{"title":"x"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE workflow_runs SET updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveCheckpoint(context.Background(), "run-1", "fetch-pr-data", []byte(`{"title":"x"}`)))
}

func TestCheckpointStore_LoadCheckpoints(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)

	mock.ExpectQuery(`SELECT step, result FROM workflow_checkpoints WHERE run_id = \$1`).
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"step", "result"}).
			AddRow("fetch-pr-data", []byte(`{"title":"x"}`)).
			AddRow("retrieve-context", []byte(`["a","b"]`)))

	cps, err := store.LoadCheckpoints(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Len(t, cps, 2)
	assert.JSONEq(t, `["a","b"]`, string(cps["retrieve-context"]))
}

func TestCheckpointStore_UpdateRunState(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)

	mock.ExpectExec(`UPDATE workflow_runs SET state = \$2, error = \$3`).
		WithArgs("run-1", workflow.StateFailed, "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.UpdateRunState(context.Background(), "run-1", workflow.StateFailed, "boom"))

	mock.ExpectExec(`UPDATE workflow_runs`).
		WithArgs("ghost", workflow.StateCompleted, "").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, store.UpdateRunState(context.Background(), "ghost", workflow.StateCompleted, ""), workflow.ErrRunNotFound)
}

func TestCheckpointStore_ListStaleRuns(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCheckpointStore(db)
	cutoff := time.Now().Add(-10 * time.Minute)

	cols := []string{"id", "workflow", "run_key", "payload", "state", "error", "created_at", "updated_at"}
	mock.ExpectQuery(`WHERE state NOT IN \(\$1, \$2\) AND updated_at < \$3`).
		WithArgs(workflow.StateCompleted, workflow.StateFailed, cutoff).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("run-1", "review-pull-request", "k", []byte(`{}`), "queued", "", cutoff, cutoff))

	runs, err := store.ListStaleRuns(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, workflow.StateQueued, runs[0].State)
}
