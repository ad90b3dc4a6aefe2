package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFromPullRequest(t *testing.T) {
	tests := []struct {
		name    string
		event   *github.PullRequestEvent
		want    *ReviewRequest
		wantErr error
	}{
		{
			name: "opened",
			event: &github.PullRequestEvent{
				Action: github.Ptr("opened"),
				Number: github.Ptr(12),
				Repo:   &github.Repository{FullName: github.Ptr("acme/widgets")},
			},
			want: &ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: 12},
		},
		{
			name: "synchronize takes number from the pull request",
			event: &github.PullRequestEvent{
				Action:      github.Ptr("synchronize"),
				Repo:        &github.Repository{FullName: github.Ptr("acme/widgets")},
				PullRequest: &github.PullRequest{Number: github.Ptr(3)},
			},
			want: &ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: 3},
		},
		{
			name: "closed is ignored",
			event: &github.PullRequestEvent{
				Action: github.Ptr("closed"),
				Number: github.Ptr(12),
				Repo:   &github.Repository{FullName: github.Ptr("acme/widgets")},
			},
			wantErr: ErrIgnoredEvent,
		},
		{
			name: "bad full name",
			event: &github.PullRequestEvent{
				Action: github.Ptr("opened"),
				Number: github.Ptr(12),
				Repo:   &github.Repository{FullName: github.Ptr("widgets")},
			},
			wantErr: ErrMalformedInput,
		},
		{
			name: "missing number",
			event: &github.PullRequestEvent{
				Action: github.Ptr("opened"),
				Repo:   &github.Repository{FullName: github.Ptr("acme/widgets")},
			},
			wantErr: ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EventFromPullRequest(tt.event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewRequest(t *testing.T) {
	req := &ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: 7, UserID: "u1"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "acme/widgets", req.FullName())
	assert.Equal(t, "acme/widgets#7", req.Key())
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", req.PullRequestURL())

	assert.Error(t, (&ReviewRequest{Repo: "widgets", PRNumber: 7, UserID: "u1"}).Validate())
	assert.Error(t, (&ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: -1, UserID: "u1"}).Validate())
	assert.Error(t, (&ReviewRequest{Owner: "acme", Repo: "widgets", PRNumber: 7}).Validate())
}

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantID    int
		wantErr   bool
	}{
		{name: "https URL", url: "https://github.com/acme/widgets/pull/123", wantOwner: "acme", wantRepo: "widgets", wantID: 123},
		{name: "without scheme", url: "github.com/acme/widgets/pull/456", wantOwner: "acme", wantRepo: "widgets", wantID: 456},
		{name: "trailing slash", url: "https://github.com/acme/widgets/pull/789/", wantOwner: "acme", wantRepo: "widgets", wantID: 789},
		{name: "not a number", url: "https://github.com/acme/widgets/pull/abc", wantErr: true},
		{name: "issue URL", url: "https://github.com/acme/widgets/issues/123", wantErr: true},
		{name: "files tab", url: "https://github.com/acme/widgets/pull/123/files", wantErr: true},
		{name: "zero", url: "https://github.com/acme/widgets/pull/0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, id, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
