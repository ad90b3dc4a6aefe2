package workflow

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process CheckpointStore. It is used by tests and by
// one-shot CLI runs that do not need to survive a restart.
type MemoryStore struct {
	mu          sync.Mutex
	runs        map[string]*Run
	checkpoints map[string]map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:        make(map[string]*Run),
		checkpoints: make(map[string]map[string][]byte),
	}
}

func (m *MemoryStore) CreateRun(_ context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRun(_ context.Context, id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (m *MemoryStore) UpdateRunState(_ context.Context, id string, state State, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	run.State = state
	run.Error = errMsg
	run.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) SaveCheckpoint(_ context.Context, runID, step string, result []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return ErrRunNotFound
	}
	if m.checkpoints[runID] == nil {
		m.checkpoints[runID] = make(map[string][]byte)
	}
	m.checkpoints[runID][step] = append([]byte(nil), result...)
	m.runs[runID].UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) LoadCheckpoints(_ context.Context, runID string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.checkpoints[runID]))
	for step, raw := range m.checkpoints[runID] {
		out[step] = append([]byte(nil), raw...)
	}
	return out, nil
}

func (m *MemoryStore) ListStaleRuns(_ context.Context, updatedBefore time.Time) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Run
	for _, run := range m.runs {
		if run.State.Terminal() || !run.UpdatedAt.Before(updatedBefore) {
			continue
		}
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
