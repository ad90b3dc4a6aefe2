package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/workflow"
)

// blockingExecutor reports each run it starts and holds it until released.
type blockingExecutor struct {
	started chan string
	release chan struct{}

	mu   sync.Mutex
	runs []string
	errs []error
}

func newBlockingExecutor() *blockingExecutor {
	return &blockingExecutor{
		started: make(chan string, 10),
		release: make(chan struct{}),
	}
}

func (b *blockingExecutor) Run(ctx context.Context, runID string) error {
	b.started <- runID
	var err error
	select {
	case <-b.release:
	case <-ctx.Done():
		err = ctx.Err()
	}
	b.mu.Lock()
	b.runs = append(b.runs, runID)
	b.errs = append(b.errs, err)
	b.mu.Unlock()
	return err
}

func (b *blockingExecutor) finished() ([]string, []error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.runs...), append([]error(nil), b.errs...)
}

func newTestEngine() *workflow.Engine {
	return workflow.NewEngine(workflow.NewMemoryStore(), 2, workflow.DefaultRetryPolicy(), quietLogger())
}

func waitStarted(t *testing.T, exec *blockingExecutor) string {
	t.Helper()
	select {
	case id := <-exec.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("run was not started")
		return ""
	}
}

func TestDispatcher_DispatchPersistsAndRuns(t *testing.T) {
	engine := newTestEngine()
	exec := newBlockingExecutor()
	d := NewDispatcher(engine, exec, 1, 4, quietLogger())

	req := testRequest
	runID, err := d.Dispatch(context.Background(), &req)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	run, err := engine.Store().GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, WorkflowName, run.Workflow)
	assert.Equal(t, "acme/widgets#42", run.Key)
	assert.Equal(t, workflow.StateQueued, run.State)

	assert.Equal(t, runID, waitStarted(t, exec))
	assert.True(t, d.InFlight(runID))

	close(exec.release)
	d.Stop()
	assert.False(t, d.InFlight(runID))

	runs, _ := exec.finished()
	assert.Equal(t, []string{runID}, runs)
}

func TestDispatcher_RejectsInvalidRequest(t *testing.T) {
	d := NewDispatcher(newTestEngine(), newBlockingExecutor(), 1, 1, quietLogger())
	defer d.Stop()

	_, err := d.Dispatch(context.Background(), &core.ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestDispatcher_FullQueueLeavesRunInStore(t *testing.T) {
	engine := newTestEngine()
	exec := newBlockingExecutor()
	d := NewDispatcher(engine, exec, 1, 1, quietLogger())

	ctx := context.Background()
	dispatch := func(pr int) string {
		req := testRequest
		req.PRNumber = pr
		id, err := d.Dispatch(ctx, &req)
		require.NoError(t, err)
		return id
	}

	running := dispatch(1)
	waitStarted(t, exec)
	queued := dispatch(2)
	overflow := dispatch(3)

	assert.True(t, d.InFlight(running))
	assert.True(t, d.InFlight(queued))
	assert.False(t, d.InFlight(overflow), "a run that does not fit stays for the sweeper")

	run, err := engine.Store().GetRun(ctx, overflow)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateQueued, run.State)

	assert.False(t, d.Resume(queued), "a run already in flight is not enqueued twice")

	close(exec.release)
	d.Stop()
	runs, _ := exec.finished()
	assert.ElementsMatch(t, []string{running, queued}, runs)
	assert.False(t, d.Resume(overflow), "a stopped dispatcher takes no work")
}

func TestDispatcher_AbortInterruptsRunningReviews(t *testing.T) {
	exec := newBlockingExecutor()
	d := NewDispatcher(newTestEngine(), exec, 1, 2, quietLogger())

	req := testRequest
	_, err := d.Dispatch(context.Background(), &req)
	require.NoError(t, err)
	waitStarted(t, exec)

	d.Abort()

	_, errs := exec.finished()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestDispatcher_DuplicateRunsDoNotStallOtherReviews(t *testing.T) {
	job, engine, m := newTestJob(t, 1)
	d := NewDispatcher(engine, job, 5, 10, quietLogger())

	release := make(chan struct{})
	otherStarted := make(chan struct{})
	var mu sync.Mutex
	executing, peak := 0, 0

	m.store.EXPECT().FindAccountByUserAndProvider(gomock.Any(), gomock.Any(), gomock.Any()).Return(testAccount, nil).AnyTimes()
	m.client.EXPECT().GetPullRequestDiff(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, owner, _ string, _ int) (*github.PullRequestDiff, error) {
			if owner == "other" {
				close(otherStarted)
				return testDiff, nil
			}
			mu.Lock()
			executing++
			peak = max(peak, executing)
			mu.Unlock()
			<-release
			mu.Lock()
			executing--
			mu.Unlock()
			return testDiff, nil
		}).Times(6)
	m.retriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	m.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return("review", nil).AnyTimes()
	m.client.EXPECT().CreateComment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.store.EXPECT().FindRepositoryByOwnerAndName(gomock.Any(), gomock.Any(), gomock.Any()).Return(testRepo, nil).AnyTimes()
	m.store.EXPECT().InsertReviewRecord(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var runIDs []string
	for range 5 {
		req := testRequest
		runID, err := d.Dispatch(context.Background(), &req)
		require.NoError(t, err)
		runIDs = append(runIDs, runID)
	}
	other := core.ReviewRequest{Owner: "other", Repo: "repo", PRNumber: 1, UserID: "user-1"}
	otherID, err := d.Dispatch(context.Background(), &other)
	require.NoError(t, err)

	select {
	case <-otherStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("review of another pull request did not start while duplicates were waiting")
	}
	close(release)
	d.Stop()

	for _, id := range append(runIDs, otherID) {
		run, err := engine.Store().GetRun(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, workflow.StateCompleted, run.State, id)
	}
	assert.Equal(t, 1, peak, "runs of the same pull request must not overlap")
	assert.Empty(t, job.gate.parked)
}
