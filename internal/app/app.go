// Package app holds the assembled code-sentry service: the HTTP server, the
// review dispatcher and the recovery sweeper, plus the components the CLI
// drives directly.
package app

import (
	"errors"
	"log/slog"

	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/jobs"
	"github.com/sevigo/code-sentry/internal/repository"
	"github.com/sevigo/code-sentry/internal/server"
	"github.com/sevigo/code-sentry/internal/storage"
	"github.com/sevigo/code-sentry/internal/workflow"
)

// App holds the main application components.
type App struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Store      storage.Store
	Engine     *workflow.Engine
	Clients    github.ClientFactory
	Repos      repository.Manager
	Trigger    *jobs.Trigger
	Dispatcher *jobs.Dispatcher

	server   *server.Server
	recovery *jobs.Recovery
}

// NewApp sets up the application with all its dependencies.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
	engine *workflow.Engine,
	clients github.ClientFactory,
	repos repository.Manager,
	trigger *jobs.Trigger,
	dispatcher *jobs.Dispatcher,
	recovery *jobs.Recovery,
	srv *server.Server,
) *App {
	logger.Info("code-sentry initialized",
		"generator_model", cfg.AI.GeneratorModel,
		"embedder_model", cfg.AI.EmbedderModel,
		"max_concurrency", cfg.Workflow.MaxConcurrency,
		"max_workers", cfg.Workflow.MaxWorkers)

	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Store:      store,
		Engine:     engine,
		Clients:    clients,
		Repos:      repos,
		Trigger:    trigger,
		Dispatcher: dispatcher,
		server:     srv,
		recovery:   recovery,
	}
}

// Start resumes interrupted reviews in the background and runs the HTTP
// server until Stop is called.
func (a *App) Start() error {
	a.Logger.Info("starting code-sentry", "server_port", a.Cfg.Server.Port, "base_url", a.Cfg.Server.BaseURL)

	if err := a.recovery.Start(); err != nil {
		return err
	}
	if err := a.server.Start(); err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. Queued reviews are drained before
// it returns; runs that never started are resumed on the next start.
func (a *App) Stop() error {
	a.Logger.Info("shutting down code-sentry services")

	// No new requests while the queue drains.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	recoveryErr := a.recovery.Stop()
	if recoveryErr != nil {
		a.Logger.Error("error stopping recovery sweeper", "error", recoveryErr)
	}

	a.Dispatcher.Stop()

	if err := errors.Join(serverErr, recoveryErr); err != nil {
		a.Logger.Error("code-sentry stopped with errors", "error", err)
		return err
	}
	a.Logger.Info("code-sentry stopped successfully")
	return nil
}
