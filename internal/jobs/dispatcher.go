package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/workflow"
)

const defaultQueueSize = 100

// RunExecutor executes a persisted workflow run.
type RunExecutor interface {
	Run(ctx context.Context, runID string) error
}

// Dispatcher implements core.JobDispatcher. Requests become queued runs in the
// checkpoint store first and are then handed to a pool of worker goroutines.
// A run that does not fit in the queue stays queued in the store until the
// recovery sweeper picks it up.
type Dispatcher struct {
	engine     *workflow.Engine
	executor   RunExecutor
	jobQueue   chan string
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger

	// ctx is cancelled by Abort; running pipelines are interrupted, not failed.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	closed   bool
	inFlight map[string]struct{}
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(engine *workflow.Engine, executor RunExecutor, maxWorkers, queueSize int, logger *slog.Logger) *Dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		engine:     engine,
		executor:   executor,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan string, queueSize),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		inFlight:   make(map[string]struct{}),
	}
	d.startWorkers()
	return d
}

func (d *Dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes runs from the queue until it's closed.
func (d *Dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting review worker", "id", workerID)

	for runID := range d.jobQueue {
		d.process(workerID, runID)
	}

	d.logger.Debug("shutting down review worker", "id", workerID)
}

func (d *Dispatcher) process(workerID int, runID string) {
	defer d.release(runID)

	if d.ctx.Err() != nil {
		// aborted: the run stays in the store for the next start
		return
	}
	d.logger.Info("worker processing run", "worker_id", workerID, "run_id", runID)

	if err := d.executor.Run(d.ctx, runID); err != nil {
		d.logger.Error("review run did not complete", "run_id", runID, "error", err)
	}
}

// Dispatch persists the request as a queued run and enqueues it without
// blocking. It returns the run ID.
func (d *Dispatcher) Dispatch(ctx context.Context, req *core.ReviewRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrMalformedInput, err)
	}

	run, err := d.engine.CreateRun(ctx, WorkflowName, req.Key(), req)
	if err != nil {
		return "", fmt.Errorf("failed to queue review for %s: %w", req.Key(), err)
	}
	d.logger.Info("queuing code review run", "repo", req.FullName(), "pr", req.PRNumber, "run_id", run.ID)

	if !d.enqueue(run.ID) {
		d.logger.Warn("job queue is full, run left for the recovery sweeper", "run_id", run.ID)
	}
	return run.ID, nil
}

// Resume enqueues an existing run. It reports false when the run is already
// queued or executing in this process, or when the queue cannot take it.
func (d *Dispatcher) Resume(runID string) bool {
	return d.enqueue(runID)
}

// InFlight reports whether the run is queued or executing in this process.
func (d *Dispatcher) InFlight(runID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.inFlight[runID]
	return ok
}

func (d *Dispatcher) enqueue(runID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	if _, ok := d.inFlight[runID]; ok {
		return false
	}
	select {
	case d.jobQueue <- runID:
		d.inFlight[runID] = struct{}{}
		return true
	default:
		return false
	}
}

func (d *Dispatcher) release(runID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, runID)
}

// Stop gracefully shuts down the dispatcher, waiting for queued and running
// reviews to finish.
func (d *Dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobQueue)
	}
	d.mu.Unlock()
	d.wg.Wait()
	d.cancel()
	d.logger.Info("all review jobs have finished")
}

// Abort interrupts running reviews and drops the queue. Interrupted and
// unstarted runs keep their state in the store and are resumed by the
// recovery sweeper after a restart.
func (d *Dispatcher) Abort() {
	d.cancel()
	d.Stop()
}
