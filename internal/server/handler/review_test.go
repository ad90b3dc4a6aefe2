package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/code-sentry/internal/core"
)

type requesterFunc func(ctx context.Context, owner, repo string, prNumber int) (string, error)

func (f requesterFunc) RequestReview(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	return f(ctx, owner, repo, prNumber)
}

func TestReviewHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     func(owner, repo string, pr int) (string, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "queues review",
			body: `{"owner":"acme","repo":"widgets","prNumber":7}`,
			result: func(owner, repo string, pr int) (string, error) {
				if owner != "acme" || repo != "widgets" || pr != 7 {
					return "", fmt.Errorf("unexpected request %s/%s#%d", owner, repo, pr)
				}
				return "run-1", nil
			},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"msg":"Review Queued","run_id":"run-1"}`,
		},
		{
			name: "unknown repository",
			body: `{"owner":"acme","repo":"widgets","prNumber":7}`,
			result: func(string, string, int) (string, error) {
				return "", fmt.Errorf("repository acme/widgets is not connected, please reconnect it: %w", core.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"repository acme/widgets is not connected, please reconnect it: not found"}`,
		},
		{
			name: "trigger failure",
			body: `{"owner":"acme","repo":"widgets","prNumber":7}`,
			result: func(string, string, int) (string, error) {
				return "", errors.New("no GitHub access token found for user user-1")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"no GitHub access token found for user user-1"}`,
		},
		{
			name:       "malformed body",
			body:       `{"owner":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "missing repository",
			body:       `{"owner":"acme","prNumber":7}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"owner and repo are required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewReviewHandler(requesterFunc(func(_ context.Context, owner, repo string, pr int) (string, error) {
				called = true
				return tt.result(owner, repo, pr)
			}), quietLogger())

			rr := httptest.NewRecorder()
			h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, tt.result != nil, called)
		})
	}
}
