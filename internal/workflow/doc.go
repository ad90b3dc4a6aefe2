// Package workflow runs durable, step-checkpointed workflows.
//
// A workflow run is a persisted Run record plus one checkpoint per completed
// step, keyed by (run ID, step name). Steps are executed through Do, which
// returns the checkpointed result when a step already completed, and otherwise
// runs the step under a RetryPolicy and records the result before returning.
// Resuming an interrupted run therefore never repeats a completed step.
//
// The Engine bounds the number of concurrently executing runs with a weighted
// semaphore; callers beyond the limit wait for a free slot.
package workflow
