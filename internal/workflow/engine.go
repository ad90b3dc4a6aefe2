package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Func is the body of a workflow. It drives its steps through Do.
type Func func(ctx context.Context, ex *Execution) error

// Engine executes workflow runs with bounded concurrency.
type Engine struct {
	store  CheckpointStore
	policy RetryPolicy
	slots  *semaphore.Weighted
	logger *slog.Logger
}

// NewEngine creates an Engine that runs at most maxConcurrency runs at once.
// If maxConcurrency is 0 or negative, it defaults to 1.
func NewEngine(store CheckpointStore, maxConcurrency int, policy RetryPolicy, logger *slog.Logger) *Engine {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Engine{
		store:  store,
		policy: policy,
		slots:  semaphore.NewWeighted(int64(maxConcurrency)),
		logger: logger,
	}
}

// Store returns the checkpoint store backing the engine.
func (e *Engine) Store() CheckpointStore {
	return e.store
}

// CreateRun persists a new queued run for the given workflow and payload.
func (e *Engine) CreateRun(ctx context.Context, workflowName, key string, payload any) (*Run, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for %s: %w", workflowName, err)
	}

	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.NewString(),
		Workflow:  workflowName,
		Key:       key,
		Payload:   data,
		State:     StateQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// Execute runs fn for the run with the given ID once a concurrency slot is free.
// Completed steps recorded for the run are replayed from their checkpoints.
//
// When fn returns nil the run is marked completed; when it returns an error the
// run is marked failed, unless ctx was cancelled, in which case the run keeps
// its current state so that it can be resumed later.
func (e *Engine) Execute(ctx context.Context, runID string, fn Func) error {
	if err := e.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for execution slot: %w", err)
	}
	defer e.slots.Release(1)

	run, err := e.store.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	logger := e.logger.With("run_id", run.ID, "workflow", run.Workflow)
	if run.State.Terminal() {
		logger.Info("run already finished, nothing to execute", "state", run.State)
		return nil
	}

	checkpoints, err := e.store.LoadCheckpoints(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoints for run %s: %w", runID, err)
	}
	if len(checkpoints) > 0 {
		logger.Info("resuming run", "completed_steps", len(checkpoints), "state", run.State)
	}

	ex := &Execution{
		run:         run,
		checkpoints: checkpoints,
		engine:      e,
		logger:      logger,
	}

	runErr := fn(ctx, ex)

	// Terminal states are written even if the caller's context ends right now.
	finalCtx := context.WithoutCancel(ctx)
	switch {
	case runErr == nil:
		if err := e.store.UpdateRunState(finalCtx, run.ID, StateCompleted, ""); err != nil {
			logger.Error("failed to mark run completed", "error", err)
			return fmt.Errorf("failed to mark run completed: %w", err)
		}
		logger.Info("run completed")
		return nil
	case ctx.Err() != nil:
		logger.Warn("run interrupted, it will be resumed from its last checkpoint", "state", ex.State(), "error", runErr)
		return runErr
	default:
		if err := e.store.UpdateRunState(finalCtx, run.ID, StateFailed, runErr.Error()); err != nil {
			logger.Error("failed to mark run failed", "error", err)
		}
		logger.Error("run failed", "state", ex.State(), "error", runErr)
		return runErr
	}
}

// Execution is the handle a running workflow uses to reach its run and checkpoints.
type Execution struct {
	mu          sync.Mutex
	run         *Run
	checkpoints map[string][]byte
	engine      *Engine
	logger      *slog.Logger
}

// RunID returns the ID of the executing run.
func (ex *Execution) RunID() string {
	return ex.run.ID
}

// State returns the last state recorded for the run.
func (ex *Execution) State() State {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.run.State
}

// Logger returns a logger scoped to the run.
func (ex *Execution) Logger() *slog.Logger {
	return ex.logger
}

// DecodePayload unmarshals the run payload into v.
func (ex *Execution) DecodePayload(v any) error {
	if err := json.Unmarshal(ex.run.Payload, v); err != nil {
		return Permanent(fmt.Errorf("failed to decode payload of run %s: %w", ex.run.ID, err))
	}
	return nil
}

// Transition records that the run entered state.
func (ex *Execution) Transition(ctx context.Context, state State) error {
	ex.mu.Lock()
	current := ex.run.State
	ex.mu.Unlock()
	if current == state {
		return nil
	}

	if err := ex.engine.store.UpdateRunState(ctx, ex.run.ID, state, ""); err != nil {
		return fmt.Errorf("failed to record state %s: %w", state, err)
	}

	ex.mu.Lock()
	ex.run.State = state
	ex.mu.Unlock()
	ex.logger.Debug("run state changed", "from", current, "to", state)
	return nil
}

func (ex *Execution) checkpoint(step string) ([]byte, bool) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	raw, ok := ex.checkpoints[step]
	return raw, ok
}

func (ex *Execution) setCheckpoint(step string, raw []byte) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.checkpoints == nil {
		ex.checkpoints = make(map[string][]byte)
	}
	ex.checkpoints[step] = raw
}

// Lookup returns the checkpointed result of step without executing anything.
func Lookup[T any](ex *Execution, step string) (T, bool) {
	var out T
	raw, ok := ex.checkpoint(step)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// Do runs step fn exactly once per run as far as the caller can observe: if the
// step has a checkpoint its recorded result is returned; otherwise fn runs under
// the engine's retry policy and its result is checkpointed before Do returns.
func Do[T any](ctx context.Context, ex *Execution, step string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok := ex.checkpoint(step); ok {
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, Permanent(fmt.Errorf("corrupt checkpoint for step %s: %w", step, err))
		}
		ex.logger.Info("step replayed from checkpoint", "step", step)
		return out, nil
	}

	logger := ex.logger.With("step", step)
	logger.Info("step started")
	start := time.Now()

	out, attempts, err := retry(ctx, ex.engine.policy, logger, fn)
	if err != nil {
		return zero, &StepError{Step: step, Attempts: attempts, Err: err}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return zero, Permanent(fmt.Errorf("failed to encode result of step %s: %w", step, err))
	}
	if err := ex.engine.store.SaveCheckpoint(ctx, ex.run.ID, step, raw); err != nil {
		return zero, fmt.Errorf("failed to checkpoint step %s: %w", step, err)
	}
	ex.setCheckpoint(step, raw)

	logger.Info("step completed", "attempts", attempts, "duration", time.Since(start))
	return out, nil
}
