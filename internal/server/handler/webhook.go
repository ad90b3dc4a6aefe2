// Package handler provides HTTP handlers for the code-sentry service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/storage"
)

const (
	eventPing        = "ping"
	eventPullRequest = "pull_request"

	msgInternalError = "Internal Server Error"
	msgEventReceived = "Event received"
)

// WebhookHandler processes incoming webhooks from GitHub.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	store      storage.Store
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests. Everything after the event is
// understood is acknowledged with 200; downstream failures are only logged.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	eventType := github.WebHookType(r)
	if eventType == "" {
		h.logger.Error("webhook without event type header")
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	payload, err := h.readPayload(r)
	if err != nil {
		var sigErr *signatureError
		if errors.As(err, &sigErr) {
			h.logger.Error("invalid webhook payload signature", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
		h.logger.Error("could not read webhook body", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if eventType == eventPing {
		writeMsg(w, http.StatusOK, "pong")
		return
	}
	if !json.Valid(payload) {
		h.logger.Error("webhook body is not JSON", "type", eventType)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if eventType != eventPullRequest {
		h.logger.Debug("ignoring unhandled webhook event type", "type", eventType)
		writeMsg(w, http.StatusOK, msgEventReceived)
		return
	}

	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	pr, ok := event.(*github.PullRequestEvent)
	if !ok {
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	req, err := core.EventFromPullRequest(pr)
	switch {
	case errors.Is(err, core.ErrIgnoredEvent):
		h.logger.Debug("ignoring pull request event", "reason", err.Error(), "repo", pr.GetRepo().GetFullName())
	case err != nil:
		h.logger.Error("malformed pull request event", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	default:
		h.trigger(r.Context(), req)
	}
	writeMsg(w, http.StatusOK, msgEventReceived)
}

type signatureError struct{ err error }

func (e *signatureError) Error() string { return e.err.Error() }
func (e *signatureError) Unwrap() error { return e.err }

// readPayload returns the raw body. With a webhook secret configured the
// signature must match.
func (h *WebhookHandler) readPayload(r *http.Request) ([]byte, error) {
	if secret := h.cfg.GitHub.WebhookSecret; secret != "" {
		payload, err := github.ValidatePayload(r, []byte(secret))
		if err != nil {
			return nil, &signatureError{err: err}
		}
		return payload, nil
	}
	return io.ReadAll(r.Body)
}

// trigger attributes the review to the owner of the connected repository and
// dispatches it. Failures never reach the caller. The event is acknowledged
// either way, so persisting the run must outlive a cancelled request.
func (h *WebhookHandler) trigger(ctx context.Context, req *core.ReviewRequest) {
	ctx = context.WithoutCancel(ctx)
	logger := h.logger.With("repo", req.FullName(), "pr", req.PRNumber)

	repo, err := h.store.FindRepositoryByOwnerAndName(ctx, req.Owner, req.Repo)
	if err != nil {
		logger.Warn("could not resolve repository owner, review not started", "error", err)
		return
	}
	req.UserID = repo.UserID

	runID, err := h.dispatcher.Dispatch(ctx, req)
	if err != nil {
		logger.Error("failed to dispatch review job", "error", err)
		return
	}
	logger.Info("review job dispatched successfully", "run_id", runID)
}
