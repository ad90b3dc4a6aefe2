package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// review requests for asynchronous processing. This interface decouples the
// event source (e.g., a webhook handler) from the pipeline execution mechanism.
//
//go:generate mockgen -destination=../../mocks/mock_dispatcher.go -package=mocks . JobDispatcher
type JobDispatcher interface {
	// Dispatch records the request as a queued run and hands it to a worker.
	// It never waits for the pipeline itself; an error means the request could
	// not be recorded at all.
	Dispatch(ctx context.Context, req *ReviewRequest) (string, error)
}
