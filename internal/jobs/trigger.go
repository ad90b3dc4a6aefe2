package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/storage"
)

// Trigger starts reviews on demand for connected repositories.
type Trigger struct {
	store      storage.Store
	clients    github.ClientFactory
	dispatcher core.JobDispatcher
	recorder   *Recorder
	logger     *slog.Logger
}

// NewTrigger creates a Trigger.
func NewTrigger(store storage.Store, clients github.ClientFactory, dispatcher core.JobDispatcher, recorder *Recorder, logger *slog.Logger) *Trigger {
	return &Trigger{
		store:      store,
		clients:    clients,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
	}
}

// RequestReview queues a review of the pull request on behalf of the
// repository's owner. The pull request is fetched first so that a bad number
// or a revoked token is reported right away. Any failure leaves a failed
// review record behind.
func (t *Trigger) RequestReview(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	runID, err := t.requestReview(ctx, owner, repo, prNumber)
	if err != nil {
		t.logger.Error("manual review request failed", "repo", owner+"/"+repo, "pr", prNumber, "error", err)
		t.recorder.RecordFailure(context.WithoutCancel(ctx), owner, repo, prNumber, failedFetchTitle, "Error: "+err.Error())
		return "", err
	}
	return runID, nil
}

func (t *Trigger) requestReview(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	if prNumber <= 0 {
		return "", fmt.Errorf("%w: pull request number must be positive, got: %d", core.ErrMalformedInput, prNumber)
	}

	repository, err := t.store.FindRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("repository %s/%s is not connected, please reconnect it: %w", owner, repo, err)
	}

	token, err := resolveToken(ctx, t.store, repository.UserID)
	if err != nil {
		return "", err
	}

	pr, err := t.clients.ForToken(ctx, token).GetPullRequestDiff(ctx, owner, repo, prNumber)
	if err != nil {
		return "", err
	}
	t.logger.Info("manual review requested", "repo", repository.FullName, "pr", prNumber, "title", pr.Title)

	return t.dispatcher.Dispatch(ctx, &core.ReviewRequest{
		Owner:    owner,
		Repo:     repo,
		PRNumber: prNumber,
		UserID:   repository.UserID,
	})
}
