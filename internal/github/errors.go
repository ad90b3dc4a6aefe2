package github

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/code-sentry/internal/core"
)

// IsTransient reports whether a raw GitHub API error is worth retrying:
// network failures, server errors and rate limiting.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func isNotFound(err error) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}

// classify wraps a go-github error into the application's error taxonomy.
func classify(op string, err error) error {
	switch {
	case IsTransient(err):
		return &core.TransientError{Op: op, Err: err}
	case isNotFound(err):
		return fmt.Errorf("%s: %w: %w", op, core.ErrNotFound, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
