// Package repository connects GitHub repositories to the service: it registers
// the review webhook and keeps the repository's retrieval corpus in sync.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/crawler"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/llm"
	"github.com/sevigo/code-sentry/internal/storage"
)

// Result describes the outcome of a connect or reindex.
type Result struct {
	Repository *core.Repository
	Files      int
	Documents  int
}

// Manager connects, disconnects and reindexes repositories.
type Manager interface {
	Connect(ctx context.Context, userID, owner, repo string) (*Result, error)
	Disconnect(ctx context.Context, owner, repo string) error
	Reindex(ctx context.Context, owner, repo string) (*Result, error)
}

type manager struct {
	cfg     *config.Config
	store   storage.Store
	clients github.ClientFactory
	indexer llm.Indexer
	logger  *slog.Logger
	repoMux sync.Map
}

// New creates a new repository Manager.
func New(cfg *config.Config, store storage.Store, clients github.ClientFactory, indexer llm.Indexer, logger *slog.Logger) Manager {
	return &manager{
		cfg:     cfg,
		store:   store,
		clients: clients,
		indexer: indexer,
		logger:  logger,
	}
}

func (m *manager) lock(owner, repo string) func() {
	val, _ := m.repoMux.LoadOrStore(owner+"/"+repo, &sync.Mutex{})
	mux := val.(*sync.Mutex)
	mux.Lock()
	return mux.Unlock
}

// Connect registers the webhook (reusing one that already points at this
// service), records the repository for userID and indexes its contents.
// Connecting an already connected repository is safe.
func (m *manager) Connect(ctx context.Context, userID, owner, repo string) (*Result, error) {
	defer m.lock(owner, repo)()
	logger := m.logger.With("repo", owner+"/"+repo)

	client, err := m.clientFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	hook, err := client.CreateWebhook(ctx, owner, repo, m.cfg.WebhookCallbackURL(), m.cfg.GitHub.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to register webhook for %s/%s: %w", owner, repo, err)
	}
	logger.Info("webhook registered", "webhook_id", hook.ID, "url", hook.URL)

	record := &core.Repository{
		UserID:    userID,
		Owner:     owner,
		Name:      repo,
		FullName:  owner + "/" + repo,
		WebhookID: hook.ID,
	}
	if err := m.store.UpsertRepository(ctx, record); err != nil {
		return nil, err
	}

	files, docs, err := m.index(ctx, client, record, logger)
	if err != nil {
		return nil, err
	}
	return &Result{Repository: record, Files: files, Documents: docs}, nil
}

// Disconnect removes the webhook, the repository record and its corpus.
func (m *manager) Disconnect(ctx context.Context, owner, repo string) error {
	defer m.lock(owner, repo)()
	logger := m.logger.With("repo", owner+"/"+repo)

	record, err := m.store.FindRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("repository %s/%s is not connected: %w", owner, repo, err)
	}

	client, err := m.clientFor(ctx, record.UserID)
	if err != nil {
		return err
	}
	hook, err := client.DeleteWebhook(ctx, owner, repo, m.cfg.WebhookCallbackURL())
	if err != nil {
		return fmt.Errorf("failed to remove webhook from %s/%s: %w", owner, repo, err)
	}
	if hook == nil {
		logger.Warn("no webhook found for this service, it was probably removed on GitHub")
	}

	if err := m.store.DeleteRepository(ctx, record.ID); err != nil {
		return err
	}
	if err := m.indexer.Drop(ctx, record.FullName); err != nil {
		logger.Warn("failed to drop repository corpus", "error", err)
	}
	logger.Info("repository disconnected")
	return nil
}

// Reindex rebuilds the corpus of a connected repository from scratch.
func (m *manager) Reindex(ctx context.Context, owner, repo string) (*Result, error) {
	defer m.lock(owner, repo)()
	logger := m.logger.With("repo", owner+"/"+repo)

	record, err := m.store.FindRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("repository %s/%s is not connected: %w", owner, repo, err)
	}
	client, err := m.clientFor(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	// a missing corpus is fine here
	if err := m.indexer.Drop(ctx, record.FullName); err != nil {
		logger.Debug("could not drop previous corpus", "error", err)
	}

	files, docs, err := m.index(ctx, client, record, logger)
	if err != nil {
		return nil, err
	}
	return &Result{Repository: record, Files: files, Documents: docs}, nil
}

func (m *manager) clientFor(ctx context.Context, userID string) (github.Client, error) {
	account, err := m.store.FindAccountByUserAndProvider(ctx, userID, core.ProviderGitHub)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w for user %s", core.ErrCredentialMissing, userID)
		}
		return nil, err
	}
	if account.AccessToken == "" {
		return nil, fmt.Errorf("%w for user %s", core.ErrCredentialMissing, userID)
	}
	return m.clients.ForToken(ctx, account.AccessToken), nil
}

func (m *manager) index(ctx context.Context, client github.Client, record *core.Repository, logger *slog.Logger) (int, int, error) {
	repoCfg, err := LoadRepoConfig(ctx, client, record.Owner, record.Name, logger)
	if err != nil {
		return 0, 0, err
	}

	c := crawler.New(
		crawler.WithConcurrency(m.cfg.Crawler.Concurrency),
		crawler.WithRepoConfig(repoCfg),
		crawler.WithLogger(logger),
	)
	entries, err := c.Crawl(ctx, client, record.Owner, record.Name, "")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to crawl %s: %w", record.FullName, err)
	}

	docs, err := m.indexer.Index(ctx, record.FullName, entries)
	if err != nil {
		return len(entries), docs, err
	}
	return len(entries), docs, nil
}

// LoadRepoConfig reads .code-sentry.yml from the repository root. A missing
// or invalid file yields the defaults.
func LoadRepoConfig(ctx context.Context, reader crawler.TreeReader, owner, repo string, logger *slog.Logger) (*core.RepoConfig, error) {
	entries, err := crawler.New(crawler.WithLogger(logger)).Crawl(ctx, reader, owner, repo, config.RepoConfigFile)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.DefaultRepoConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", config.RepoConfigFile, err)
	}
	if len(entries) == 0 {
		return core.DefaultRepoConfig(), nil
	}

	cfg, err := config.ParseRepoConfig([]byte(entries[0].Content))
	if err != nil {
		logger.Warn("ignoring invalid repository config", "repo", owner+"/"+repo, "error", err)
		return core.DefaultRepoConfig(), nil
	}
	return cfg, nil
}
