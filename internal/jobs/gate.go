package jobs

import (
	"slices"
	"sync"
)

// prGate lets one goroutine at a time own a pull request key. Runs that arrive
// while the key is owned are parked and handed to the owner in arrival order,
// so a duplicate never occupies a worker while it waits.
type prGate struct {
	mu sync.Mutex
	// parked holds the waiting run IDs of every owned key.
	parked map[string][]string
}

func newPRGate() *prGate {
	return &prGate{parked: make(map[string][]string)}
}

// enter makes the caller the owner of key. When key is already owned, runID is
// parked for the owner and enter reports false.
func (g *prGate) enter(key, runID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	waiting, owned := g.parked[key]
	if !owned {
		g.parked[key] = nil
		return true
	}
	if !slices.Contains(waiting, runID) {
		g.parked[key] = append(waiting, runID)
	}
	return false
}

// next hands the owner the oldest parked run. When nothing is parked, or the
// owner gives up, the key is released and its entry removed; runs still parked
// at that point stay queued in the store for the recovery sweeper.
func (g *prGate) next(key string, giveUp bool) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	waiting := g.parked[key]
	if giveUp || len(waiting) == 0 {
		delete(g.parked, key)
		return "", false
	}
	g.parked[key] = waiting[1:]
	return waiting[0], true
}
