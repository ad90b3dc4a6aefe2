package workflow

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle state of a run. Workflows define their own
// intermediate states; queued, completed and failed are shared.
type State string

const (
	StateQueued    State = "queued"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether no further work happens for a run in this state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Run is the persisted envelope of one workflow execution.
type Run struct {
	ID        string    `db:"id" json:"id"`
	Workflow  string    `db:"workflow" json:"workflow"`
	Key       string    `db:"run_key" json:"key"`
	Payload   []byte    `db:"payload" json:"payload"`
	State     State     `db:"state" json:"state"`
	Error     string    `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ErrRunNotFound is returned by stores when a run ID is unknown.
var ErrRunNotFound = errors.New("workflow run not found")

// CheckpointStore persists runs and their step checkpoints.
type CheckpointStore interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	UpdateRunState(ctx context.Context, id string, state State, errMsg string) error
	SaveCheckpoint(ctx context.Context, runID, step string, result []byte) error
	LoadCheckpoints(ctx context.Context, runID string) (map[string][]byte, error)
	// ListStaleRuns returns non-terminal runs last updated before the given time.
	ListStaleRuns(ctx context.Context, updatedBefore time.Time) ([]*Run, error)
}
