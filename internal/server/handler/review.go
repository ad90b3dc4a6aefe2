package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sevigo/code-sentry/internal/core"
)

// ReviewRequester starts a review on demand.
type ReviewRequester interface {
	RequestReview(ctx context.Context, owner, repo string, prNumber int) (string, error)
}

// ReviewHandler serves manual review requests.
type ReviewHandler struct {
	requester ReviewRequester
	logger    *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(requester ReviewRequester, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{requester: requester, logger: logger}
}

type reviewRequestBody struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"prNumber"`
}

// Create queues a review of the pull request named in the body.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body reviewRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Owner == "" || body.Repo == "" {
		writeError(w, http.StatusBadRequest, "owner and repo are required")
		return
	}

	runID, err := h.requester.RequestReview(r.Context(), body.Owner, body.Repo, body.PRNumber)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, messageResponse{Msg: "Review Queued", RunID: runID})
}
