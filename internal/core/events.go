// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v73/github"
)

// Pull request actions that start a review pipeline.
const (
	ActionOpened      = "opened"
	ActionSynchronize = "synchronize"
)

// ReviewRequest identifies one pipeline invocation. It is the input envelope of a
// review run and is never modified once created.
type ReviewRequest struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"pr_number"`
	UserID   string `json:"user_id"`
}

// FullName returns the "owner/repo" scope of the request.
func (r *ReviewRequest) FullName() string {
	return r.Owner + "/" + r.Repo
}

// Key identifies the pull request the request targets.
func (r *ReviewRequest) Key() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.PRNumber)
}

// PullRequestURL builds the public URL of the pull request.
func (r *ReviewRequest) PullRequestURL() string {
	return PullRequestURL(r.Owner, r.Repo, r.PRNumber)
}

// PullRequestURL builds the public GitHub URL of a pull request.
func PullRequestURL(owner, repo string, prNumber int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, prNumber)
}

// Validate ensures the request carries everything a pipeline run needs.
func (r *ReviewRequest) Validate() error {
	if r.Owner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if r.Repo == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if r.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", r.PRNumber)
	}
	if r.UserID == "" {
		return fmt.Errorf("requesting user cannot be empty")
	}
	return nil
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into a ReviewRequest.
// It acts as an anti-corruption layer: only "opened" and "synchronize" actions are
// accepted, and the owner and repository name are taken from the repository's full
// name. The requesting user is not part of the event and must be resolved by the caller.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewRequest, error) {
	action := event.GetAction()
	if action != ActionOpened && action != ActionSynchronize {
		return nil, fmt.Errorf("%w: pull request action %q", ErrIgnoredEvent, action)
	}

	owner, repo, err := SplitFullName(event.GetRepo().GetFullName())
	if err != nil {
		return nil, err
	}

	prNumber := event.GetNumber()
	if prNumber == 0 {
		prNumber = event.GetPullRequest().GetNumber()
	}
	if prNumber <= 0 {
		return nil, fmt.Errorf("%w: invalid pull request number: %d", ErrMalformedInput, prNumber)
	}

	return &ReviewRequest{
		Owner:    owner,
		Repo:     repo,
		PRNumber: prNumber,
	}, nil
}

// SplitFullName splits "owner/repo" into its two parts.
func SplitFullName(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: invalid repository full name %q", ErrMalformedInput, fullName)
	}
	return owner, repo, nil
}

var prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL extracts owner, repository and number from
// https://github.com/{owner}/{repo}/pull/{number}. The scheme is optional.
func ParsePullRequestURL(url string) (string, string, int, error) {
	url = strings.TrimSuffix(url, "/")

	matches := prURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("%w: invalid pull request URL: %s", ErrMalformedInput, url)
	}

	prNumber, err := strconv.Atoi(matches[3])
	if err != nil || prNumber <= 0 {
		return "", "", 0, fmt.Errorf("%w: invalid pull request number %q", ErrMalformedInput, matches[3])
	}
	return matches[1], matches[2], prNumber, nil
}
