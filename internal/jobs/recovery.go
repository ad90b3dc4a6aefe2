package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sevigo/code-sentry/internal/workflow"
)

const (
	defaultRecoveryInterval = time.Minute
	defaultStaleAfter       = 10 * time.Minute
)

// Resumer re-enqueues an existing run.
type Resumer interface {
	Resume(runID string) bool
	InFlight(runID string) bool
}

// Recovery periodically re-enqueues review runs that were interrupted by a
// restart or never fit in the dispatcher queue.
type Recovery struct {
	scheduler  gocron.Scheduler
	store      workflow.CheckpointStore
	resumer    Resumer
	interval   time.Duration
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewRecovery creates the sweeper. It does nothing until Start is called.
func NewRecovery(store workflow.CheckpointStore, resumer Resumer, interval, staleAfter time.Duration, logger *slog.Logger) (*Recovery, error) {
	if interval <= 0 {
		interval = defaultRecoveryInterval
	}
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery scheduler: %w", err)
	}
	return &Recovery{
		scheduler:  s,
		store:      store,
		resumer:    resumer,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger,
	}, nil
}

// Start schedules the sweep, running the first one immediately.
func (r *Recovery) Start() error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			if _, err := r.Sweep(context.Background()); err != nil {
				r.logger.Error("recovery sweep failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule recovery sweep: %w", err)
	}
	r.scheduler.Start()
	r.logger.Info("recovery sweeper started", "interval", r.interval, "stale_after", r.staleAfter)
	return nil
}

// Sweep re-enqueues stale review runs and returns how many were resumed.
func (r *Recovery) Sweep(ctx context.Context) (int, error) {
	runs, err := r.store.ListStaleRuns(ctx, time.Now().UTC().Add(-r.staleAfter))
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, run := range runs {
		if run.Workflow != WorkflowName || r.resumer.InFlight(run.ID) {
			continue
		}
		if !r.resumer.Resume(run.ID) {
			r.logger.Warn("could not resume run, queue is full", "run_id", run.ID, "key", run.Key)
			break
		}
		r.logger.Info("resuming stale review run", "run_id", run.ID, "key", run.Key, "state", run.State)
		resumed++
	}
	return resumed, nil
}

// Stop shuts the scheduler down.
func (r *Recovery) Stop() error {
	return r.scheduler.Shutdown()
}
