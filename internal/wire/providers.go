package wire

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"
	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/code-sentry/internal/app"
	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/db"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/jobs"
	"github.com/sevigo/code-sentry/internal/llm"
	"github.com/sevigo/code-sentry/internal/logger"
	"github.com/sevigo/code-sentry/internal/repository"
	"github.com/sevigo/code-sentry/internal/server"
	"github.com/sevigo/code-sentry/internal/server/handler"
	"github.com/sevigo/code-sentry/internal/storage"
	"github.com/sevigo/code-sentry/internal/workflow"
)

// AppSet provides every component of the service.
var AppSet = wire.NewSet(
	app.NewApp,
	config.LoadConfig,
	provideLogger,
	provideDBConfig,
	db.NewDatabase,
	provideSQLX,
	storage.NewStore,
	storage.NewCheckpointStore,
	provideClientFactory,
	llm.NewHTTPClient,
	llm.NewEmbedder,
	provideVectorStore,
	provideParserRegistry,
	llm.NewParserChunker,
	llm.NewIndexer,
	provideRetriever,
	llm.NewModelFactory,
	llm.NewGenerator,
	llm.NewPromptManager,
	repository.New,
	provideRetryPolicy,
	provideEngine,
	jobs.NewRecorder,
	jobs.NewReviewJob,
	wire.Bind(new(jobs.RunExecutor), new(*jobs.ReviewJob)),
	provideDispatcher,
	wire.Bind(new(core.JobDispatcher), new(*jobs.Dispatcher)),
	provideRecovery,
	jobs.NewTrigger,
	wire.Bind(new(handler.ReviewRequester), new(*jobs.Trigger)),
	server.NewServer,
)

func provideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	w, closeFn, err := logger.NewWriter(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	l := logger.NewLogger(cfg.Logging, w)
	slog.SetDefault(l)
	return l, closeFn, nil
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideSQLX(conn *db.DB) *sqlx.DB {
	return conn.DB
}

func provideClientFactory(cfg *config.Config, logger *slog.Logger) (github.ClientFactory, error) {
	return github.NewClientFactory(cfg.GitHub.APIURL, logger)
}

func provideVectorStore(cfg *config.Config, embedder embeddings.Embedder, logger *slog.Logger) storage.VectorStore {
	return storage.NewQdrantVectorStore(cfg.AI.QdrantHost, cfg.AI.EmbedderModel, embedder, logger)
}

func provideParserRegistry(logger *slog.Logger) (parsers.ParserRegistry, error) {
	return parsers.RegisterLanguagePlugins(logger)
}

func provideRetriever(cfg *config.Config, store storage.VectorStore, logger *slog.Logger) llm.Retriever {
	return llm.NewRetriever(store, cfg.AI.ContextDocuments, logger)
}

func provideRetryPolicy(cfg *config.Config) workflow.RetryPolicy {
	policy := workflow.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Workflow.MaxAttempts
	if cfg.Workflow.InitialBackoff > 0 {
		policy.InitialBackoff = cfg.Workflow.InitialBackoff
	}
	if cfg.Workflow.MaxBackoff > 0 {
		policy.MaxBackoff = cfg.Workflow.MaxBackoff
	}
	return policy
}

func provideEngine(cfg *config.Config, store workflow.CheckpointStore, policy workflow.RetryPolicy, logger *slog.Logger) *workflow.Engine {
	return workflow.NewEngine(store, cfg.Workflow.MaxConcurrency, policy, logger)
}

func provideDispatcher(cfg *config.Config, engine *workflow.Engine, executor jobs.RunExecutor, logger *slog.Logger) *jobs.Dispatcher {
	return jobs.NewDispatcher(engine, executor, cfg.Workflow.MaxWorkers, cfg.Workflow.QueueSize, logger)
}

func provideRecovery(cfg *config.Config, engine *workflow.Engine, dispatcher *jobs.Dispatcher, logger *slog.Logger) (*jobs.Recovery, error) {
	return jobs.NewRecovery(engine.Store(), dispatcher, cfg.Workflow.RecoveryEvery, cfg.Workflow.RecoveryStaleAt, logger)
}
