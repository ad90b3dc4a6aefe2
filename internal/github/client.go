// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// PullRequestDiff holds the raw diff and the descriptive fields of a pull request.
type PullRequestDiff struct {
	Diff        string
	Title       string
	Description string
	HeadSHA     string
}

// FileEntry is a single file returned by the contents API. Content is still in
// the host's transport encoding (see Encoding).
type FileEntry struct {
	Path     string
	Name     string
	Encoding string
	Content  string
	Size     int
}

// DirEntry is one child of a directory listing.
type DirEntry struct {
	Path string
	Name string
	// Type is one of file, dir, symlink or submodule.
	Type string
}

// TreeEntry is the result of looking up a path: exactly one of File or Dir is set.
type TreeEntry struct {
	File *FileEntry
	Dir  []DirEntry
}

// IsDir reports whether the entry is a directory listing.
func (t *TreeEntry) IsDir() bool {
	return t.File == nil
}

// Webhook is a repository webhook registration.
type Webhook struct {
	ID     int64
	URL    string
	Events []string
	Active bool
}

// Client defines the GitHub operations the review pipeline and the repository
// crawler rely on. A Client is bound to one access credential.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client,ClientFactory
type Client interface {
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (*PullRequestDiff, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	GetTreeEntry(ctx context.Context, owner, repo, path string) (*TreeEntry, error)
	ListWebhooks(ctx context.Context, owner, repo string) ([]*Webhook, error)
	CreateWebhook(ctx context.Context, owner, repo, callbackURL, secret string) (*Webhook, error)
	DeleteWebhook(ctx context.Context, owner, repo, callbackURL string) (*Webhook, error)
}

// ClientFactory binds a Client to an access token.
type ClientFactory interface {
	ForToken(ctx context.Context, token string) Client
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

func newTokenClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

type clientFactory struct {
	baseURL *url.URL
	logger  *slog.Logger
}

// NewClientFactory returns a ClientFactory for github.com. A non-empty baseURL
// points the clients at another API root (GitHub Enterprise or a test server).
func NewClientFactory(baseURL string, logger *slog.Logger) (ClientFactory, error) {
	f := &clientFactory{logger: logger}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		f.baseURL = u
	}
	return f, nil
}

func (f *clientFactory) ForToken(ctx context.Context, token string) Client {
	c := newTokenClient(ctx, token)
	if f.baseURL != nil {
		c.BaseURL = f.baseURL
	}
	return NewGitHubClient(c, f.logger)
}

// GetPullRequestDiff retrieves the title, description and unified diff of a pull request.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (*PullRequestDiff, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, classify("get pull request", err)
	}

	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, classify("get pull request diff", err)
	}

	return &PullRequestDiff{
		Diff:        diff,
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		HeadSHA:     pr.GetHead().GetSHA(),
	}, nil
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
		return classify("create comment", err)
	}
	return nil
}

// GetTreeEntry looks up path in the default branch. A file yields its encoded
// content; a directory yields its immediate children in API order.
func (g *gitHubClient) GetTreeEntry(ctx context.Context, owner, repo, path string) (*TreeEntry, error) {
	file, dir, _, err := g.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		g.logger.Debug("failed to get repository contents", "owner", owner, "repo", repo, "path", path, "error", err)
		return nil, classify("get contents of "+displayPath(path), err)
	}

	if file != nil {
		// Raw field: GetContent would decode, and the crawler owns decoding.
		var content string
		if file.Content != nil {
			content = *file.Content
		}
		return &TreeEntry{File: &FileEntry{
			Path:     file.GetPath(),
			Name:     file.GetName(),
			Encoding: file.GetEncoding(),
			Content:  content,
			Size:     file.GetSize(),
		}}, nil
	}

	entries := make([]DirEntry, 0, len(dir))
	for _, c := range dir {
		entries = append(entries, DirEntry{
			Path: c.GetPath(),
			Name: c.GetName(),
			Type: c.GetType(),
		})
	}
	return &TreeEntry{Dir: entries}, nil
}

// ListWebhooks returns every webhook registered on the repository.
func (g *gitHubClient) ListWebhooks(ctx context.Context, owner, repo string) ([]*Webhook, error) {
	var all []*Webhook
	opts := &github.ListOptions{PerPage: 100}

	for {
		hooks, resp, err := g.client.Repositories.ListHooks(ctx, owner, repo, opts)
		if err != nil {
			g.logger.Error("failed to list webhooks", "owner", owner, "repo", repo, "error", err)
			return nil, classify("list webhooks", err)
		}
		for _, h := range hooks {
			all = append(all, toWebhook(h))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateWebhook registers a pull_request webhook pointing at callbackURL. When a
// hook with the same callback URL already exists it is returned unchanged.
func (g *gitHubClient) CreateWebhook(ctx context.Context, owner, repo, callbackURL, secret string) (*Webhook, error) {
	existing, err := g.findWebhook(ctx, owner, repo, callbackURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		g.logger.Info("webhook already registered", "owner", owner, "repo", repo, "hook_id", existing.ID)
		return existing, nil
	}

	cfg := &github.HookConfig{
		URL:         github.Ptr(callbackURL),
		ContentType: github.Ptr("json"),
	}
	if secret != "" {
		cfg.Secret = github.Ptr(secret)
	}
	hook, _, err := g.client.Repositories.CreateHook(ctx, owner, repo, &github.Hook{
		Name:   github.Ptr("web"),
		Config: cfg,
		Events: []string{"pull_request"},
		Active: github.Ptr(true),
	})
	if err != nil {
		g.logger.Error("failed to create webhook", "owner", owner, "repo", repo, "error", err)
		return nil, classify("create webhook", err)
	}
	return toWebhook(hook), nil
}

// DeleteWebhook removes the hook pointing at callbackURL. It returns nil, nil
// when no such hook exists.
func (g *gitHubClient) DeleteWebhook(ctx context.Context, owner, repo, callbackURL string) (*Webhook, error) {
	existing, err := g.findWebhook(ctx, owner, repo, callbackURL)
	if err != nil || existing == nil {
		return nil, err
	}
	if _, err := g.client.Repositories.DeleteHook(ctx, owner, repo, existing.ID); err != nil {
		g.logger.Error("failed to delete webhook", "owner", owner, "repo", repo, "hook_id", existing.ID, "error", err)
		return nil, classify("delete webhook", err)
	}
	return existing, nil
}

func (g *gitHubClient) findWebhook(ctx context.Context, owner, repo, callbackURL string) (*Webhook, error) {
	hooks, err := g.ListWebhooks(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		if h.URL == callbackURL {
			return h, nil
		}
	}
	return nil, nil
}

func toWebhook(h *github.Hook) *Webhook {
	return &Webhook{
		ID:     h.GetID(),
		URL:    h.GetConfig().GetURL(),
		Events: h.Events,
		Active: h.GetActive(),
	}
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
