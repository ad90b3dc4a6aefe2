// Package jobs defines the background review pipeline and the machinery that
// schedules it.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/llm"
	"github.com/sevigo/code-sentry/internal/storage"
	"github.com/sevigo/code-sentry/internal/workflow"
)

// WorkflowName identifies review runs in the checkpoint store.
const WorkflowName = "review-pull-request"

// Step names double as checkpoint keys and must stay stable across releases.
const (
	StepFetchPRData     = "fetch-pr-data"
	StepRetrieveContext = "retrieve-context"
	StepGenerateReview  = "generate-ai-review"
	StepPostComment     = "post-comment"
	StepSaveReview      = "save-review"
)

// Intermediate run states of a review.
const (
	StateFetchingPR        workflow.State = "fetching_pr"
	StateRetrievingContext workflow.State = "retrieving_context"
	StateGenerating        workflow.State = "generating"
	StatePostingComment    workflow.State = "posting_comment"
	StatePersisting        workflow.State = "persisting"
)

const (
	commentHeader = "## 🤖 AI Code Review\n\n"
	commentFooter = "\n\n---\n<sub>Generated by code-sentry. Reviews are produced by a language model and may be wrong.</sub>"
)

// ReviewJob runs the review pipeline of one pull request as a durable workflow.
type ReviewJob struct {
	cfg       *config.Config
	engine    *workflow.Engine
	store     storage.Store
	clients   github.ClientFactory
	retriever llm.Retriever
	generator llm.Generator
	prompts   *llm.PromptManager
	recorder  *Recorder
	logger    *slog.Logger

	// gate serializes runs of the same pull request.
	gate *prGate
}

// NewReviewJob creates a new ReviewJob.
func NewReviewJob(
	cfg *config.Config,
	engine *workflow.Engine,
	store storage.Store,
	clients github.ClientFactory,
	retriever llm.Retriever,
	generator llm.Generator,
	prompts *llm.PromptManager,
	recorder *Recorder,
	logger *slog.Logger,
) *ReviewJob {
	return &ReviewJob{
		cfg:       cfg,
		engine:    engine,
		store:     store,
		clients:   clients,
		retriever: retriever,
		generator: generator,
		prompts:   prompts,
		recorder:  recorder,
		logger:    logger,
		gate:      newPRGate(),
	}
}

// Run executes or resumes the review run with the given ID. Runs of the same
// pull request never overlap. When another run of the pull request is
// executing, Run parks runID with it and returns immediately; the executing
// caller picks parked runs up in order once it is done.
func (j *ReviewJob) Run(ctx context.Context, runID string) error {
	run, err := j.engine.Store().GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load review run %s: %w", runID, err)
	}

	if !j.gate.enter(run.Key, runID) {
		j.logger.Info("review of this pull request in progress, run parked", "run_id", runID, "key", run.Key)
		return nil
	}

	err = j.engine.Execute(ctx, runID, j.pipeline)
	for {
		next, ok := j.gate.next(run.Key, ctx.Err() != nil)
		if !ok {
			return err
		}
		if nextErr := j.engine.Execute(ctx, next, j.pipeline); nextErr != nil {
			j.logger.Error("parked review run did not complete", "run_id", next, "error", nextErr)
		}
	}
}

func (j *ReviewJob) pipeline(ctx context.Context, ex *workflow.Execution) error {
	var req core.ReviewRequest
	if err := ex.DecodePayload(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return workflow.Permanent(fmt.Errorf("%w: %w", core.ErrMalformedInput, err))
	}
	logger := ex.Logger().With("repo", req.FullName(), "pr", req.PRNumber)

	err := j.review(ctx, ex, &req, logger)
	if err == nil || ctx.Err() != nil {
		return err
	}
	var recorded *reviewRecordedError
	if errors.As(err, &recorded) {
		logger.Error("review was recorded but its step was not checkpointed", "error", err)
		return err
	}

	title := failedFetchTitle
	if pr, ok := workflow.Lookup[core.PullRequestData](ex, StepFetchPRData); ok && pr.Title != "" {
		title = pr.Title
	}
	j.recorder.RecordFailure(context.WithoutCancel(ctx), req.Owner, req.Repo, req.PRNumber, title, err.Error())
	return err
}

func (j *ReviewJob) review(ctx context.Context, ex *workflow.Execution, req *core.ReviewRequest, logger *slog.Logger) error {
	logger.Info("starting review")

	if err := ex.Transition(ctx, StateFetchingPR); err != nil {
		return err
	}
	pr, err := workflow.Do(ctx, ex, StepFetchPRData, func(ctx context.Context) (core.PullRequestData, error) {
		return j.fetchPullRequest(ctx, req)
	})
	if err != nil {
		return err
	}

	if err := ex.Transition(ctx, StateRetrievingContext); err != nil {
		return err
	}
	snippets, err := workflow.Do(ctx, ex, StepRetrieveContext, func(ctx context.Context) ([]string, error) {
		query := pr.Title + "\n" + pr.Description
		return j.retriever.Retrieve(ctx, query, req.FullName())
	})
	if err != nil {
		return err
	}

	if err := ex.Transition(ctx, StateGenerating); err != nil {
		return err
	}
	review, err := workflow.Do(ctx, ex, StepGenerateReview, func(ctx context.Context) (string, error) {
		return j.generateReview(ctx, pr, snippets)
	})
	if err != nil {
		return err
	}

	if err := ex.Transition(ctx, StatePostingComment); err != nil {
		return err
	}
	_, err = workflow.Do(ctx, ex, StepPostComment, func(ctx context.Context) (bool, error) {
		return true, j.postComment(ctx, req, pr.AccessToken, review)
	})
	if err != nil {
		return err
	}

	if err := ex.Transition(ctx, StatePersisting); err != nil {
		return err
	}
	var recordID int64
	_, err = workflow.Do(ctx, ex, StepSaveReview, func(ctx context.Context) (int64, error) {
		id, err := j.saveReview(ctx, req, pr.Title, review, logger)
		if err == nil {
			recordID = id
		}
		return id, err
	})
	if err != nil {
		if recordID != 0 {
			return &reviewRecordedError{recordID: recordID, err: err}
		}
		return err
	}

	logger.Info("review completed")
	return nil
}

// reviewRecordedError is a failure after the completed record was written.
// The run gets no second, failed record.
type reviewRecordedError struct {
	recordID int64
	err      error
}

func (e *reviewRecordedError) Error() string {
	return fmt.Sprintf("review recorded as %d: %v", e.recordID, e.err)
}

func (e *reviewRecordedError) Unwrap() error { return e.err }

// credential resolves the requesting user's GitHub token. A missing token is
// permanent; store failures are retried.
func (j *ReviewJob) credential(ctx context.Context, userID string) (string, error) {
	return resolveToken(ctx, j.store, userID)
}

func resolveToken(ctx context.Context, store storage.Store, userID string) (string, error) {
	account, err := store.FindAccountByUserAndProvider(ctx, userID, core.ProviderGitHub)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", workflow.Permanent(fmt.Errorf("%w for user %s", core.ErrCredentialMissing, userID))
		}
		return "", err
	}
	if account.AccessToken == "" {
		return "", workflow.Permanent(fmt.Errorf("%w for user %s", core.ErrCredentialMissing, userID))
	}
	return account.AccessToken, nil
}

// hostError keeps transient GitHub errors retryable and marks the rest permanent.
func hostError(err error) error {
	if core.IsTransient(err) {
		return err
	}
	return workflow.Permanent(err)
}

func (j *ReviewJob) fetchPullRequest(ctx context.Context, req *core.ReviewRequest) (core.PullRequestData, error) {
	token, err := j.credential(ctx, req.UserID)
	if err != nil {
		return core.PullRequestData{}, err
	}

	diff, err := j.clients.ForToken(ctx, token).GetPullRequestDiff(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return core.PullRequestData{}, hostError(err)
	}
	return core.PullRequestData{
		Diff:        diff.Diff,
		Title:       diff.Title,
		Description: diff.Description,
		AccessToken: token,
	}, nil
}

func (j *ReviewJob) generateReview(ctx context.Context, pr core.PullRequestData, snippets []string) (string, error) {
	model := j.cfg.AI.GeneratorModel
	data := llm.NewReviewPromptData(pr.Title, pr.Description, snippets, pr.Diff)
	prompt, err := j.prompts.RenderReview(llm.ModelProvider(j.cfg.AI.LLMProvider), data)
	if err != nil {
		return "", workflow.Permanent(fmt.Errorf("could not render review prompt: %w", err))
	}

	review, err := j.generator.Generate(ctx, prompt, model)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(review) == "" {
		return "", fmt.Errorf("generated review is empty")
	}
	return review, nil
}

// postComment publishes the review. The token is only in memory when the
// fetch step ran in this process; a resumed run resolves it again.
func (j *ReviewJob) postComment(ctx context.Context, req *core.ReviewRequest, token, review string) error {
	if token == "" {
		var err error
		if token, err = j.credential(ctx, req.UserID); err != nil {
			return err
		}
	}
	body := commentHeader + review + commentFooter
	if err := j.clients.ForToken(ctx, token).CreateComment(ctx, req.Owner, req.Repo, req.PRNumber, body); err != nil {
		return hostError(err)
	}
	return nil
}

func (j *ReviewJob) saveReview(ctx context.Context, req *core.ReviewRequest, title, review string, logger *slog.Logger) (int64, error) {
	repository, err := j.store.FindRepositoryByOwnerAndName(ctx, req.Owner, req.Repo)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			logger.Warn("repository not connected, review posted but not recorded")
			return 0, nil
		}
		return 0, err
	}

	record := &core.ReviewRecord{
		RepositoryID: repository.ID,
		PRNumber:     req.PRNumber,
		PRTitle:      title,
		PRURL:        req.PullRequestURL(),
		ReviewText:   review,
		Status:       core.ReviewStatusCompleted,
	}
	if err := j.recorder.Record(ctx, record); err != nil {
		return 0, err
	}
	return record.ID, nil
}
