package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/storage"
)

// failedFetchTitle is the title of failure records written before the pull
// request title is known.
const failedFetchTitle = "Failed to fetch PR"

// Recorder appends review outcomes to the store.
type Recorder struct {
	store  storage.Store
	logger *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(store storage.Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record inserts one review record.
func (r *Recorder) Record(ctx context.Context, record *core.ReviewRecord) error {
	if err := r.store.InsertReviewRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to record review: %w", err)
	}
	r.logger.Info("review recorded",
		"repository_id", record.RepositoryID,
		"pr", record.PRNumber,
		"status", record.Status,
		"review_id", record.ID,
	)
	return nil
}

// RecordFailure writes a failed record for the pull request. It is best
// effort: a missing repository or a store error is logged and dropped so that
// it never replaces the error being reported.
func (r *Recorder) RecordFailure(ctx context.Context, owner, repo string, prNumber int, title, text string) {
	logger := r.logger.With("repo", owner+"/"+repo, "pr", prNumber)

	repository, err := r.store.FindRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			logger.Warn("repository not connected, failure not recorded")
			return
		}
		logger.Error("failed to look up repository for failure record", "error", err)
		return
	}

	if title == "" {
		title = failedFetchTitle
	}
	record := &core.ReviewRecord{
		RepositoryID: repository.ID,
		PRNumber:     prNumber,
		PRTitle:      title,
		PRURL:        core.PullRequestURL(owner, repo, prNumber),
		ReviewText:   text,
		Status:       core.ReviewStatusFailed,
	}
	if err := r.Record(ctx, record); err != nil {
		logger.Error("failed to record review failure", "error", err)
	}
}
