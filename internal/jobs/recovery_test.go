package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-sentry/internal/workflow"
)

type fakeResumer struct {
	mu       sync.Mutex
	capacity int
	inFlight map[string]bool
	resumed  []string
}

func (f *fakeResumer) Resume(runID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resumed) >= f.capacity {
		return false
	}
	f.resumed = append(f.resumed, runID)
	return true
}

func (f *fakeResumer) InFlight(runID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight[runID]
}

func (f *fakeResumer) resumedRuns() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.resumed...)
}

func seedRuns(t *testing.T, store workflow.CheckpointStore) (queued, interrupted, busy string) {
	t.Helper()
	ctx := context.Background()
	engine := workflow.NewEngine(store, 1, workflow.DefaultRetryPolicy(), quietLogger())

	create := func(wf string) string {
		run, err := engine.CreateRun(ctx, wf, "acme/widgets#1", &testRequest)
		require.NoError(t, err)
		return run.ID
	}

	queued = create(WorkflowName)
	interrupted = create(WorkflowName)
	require.NoError(t, store.UpdateRunState(ctx, interrupted, StateGenerating, ""))
	busy = create(WorkflowName)

	done := create(WorkflowName)
	require.NoError(t, store.UpdateRunState(ctx, done, workflow.StateCompleted, ""))
	failed := create(WorkflowName)
	require.NoError(t, store.UpdateRunState(ctx, failed, workflow.StateFailed, "boom"))
	create("some-other-workflow")
	return queued, interrupted, busy
}

func TestRecovery_SweepResumesStaleRuns(t *testing.T) {
	store := workflow.NewMemoryStore()
	queued, interrupted, busy := seedRuns(t, store)
	time.Sleep(5 * time.Millisecond)

	resumer := &fakeResumer{capacity: 10, inFlight: map[string]bool{busy: true}}
	r, err := NewRecovery(store, resumer, time.Hour, time.Millisecond, quietLogger())
	require.NoError(t, err)

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{queued, interrupted}, resumer.resumedRuns())
}

func TestRecovery_SweepSkipsFreshRuns(t *testing.T) {
	store := workflow.NewMemoryStore()
	seedRuns(t, store)

	resumer := &fakeResumer{capacity: 10}
	r, err := NewRecovery(store, resumer, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, resumer.resumedRuns())
}

func TestRecovery_SweepStopsWhenQueueIsFull(t *testing.T) {
	store := workflow.NewMemoryStore()
	seedRuns(t, store)
	time.Sleep(5 * time.Millisecond)

	resumer := &fakeResumer{capacity: 1}
	r, err := NewRecovery(store, resumer, time.Hour, time.Millisecond, quietLogger())
	require.NoError(t, err)

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecovery_StartRunsFirstSweepImmediately(t *testing.T) {
	store := workflow.NewMemoryStore()
	queued, interrupted, busy := seedRuns(t, store)
	time.Sleep(5 * time.Millisecond)

	resumer := &fakeResumer{capacity: 10, inFlight: map[string]bool{busy: true}}
	r, err := NewRecovery(store, resumer, time.Hour, time.Millisecond, quietLogger())
	require.NoError(t, err)

	require.NoError(t, r.Start())
	defer func() { assert.NoError(t, r.Stop()) }()

	assert.Eventually(t, func() bool {
		return len(resumer.resumedRuns()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{queued, interrupted}, resumer.resumedRuns())
}
