// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"

	"github.com/sevigo/code-sentry/internal/app"
	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/db"
	"github.com/sevigo/code-sentry/internal/jobs"
	"github.com/sevigo/code-sentry/internal/llm"
	"github.com/sevigo/code-sentry/internal/repository"
	"github.com/sevigo/code-sentry/internal/server"
	"github.com/sevigo/code-sentry/internal/storage"
)

// Injectors from wire.go:

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	configConfig, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, cleanup, err := provideLogger(configConfig)
	if err != nil {
		return nil, nil, err
	}
	dbConfig := provideDBConfig(configConfig)
	dbDB, cleanup2, err := db.NewDatabase(dbConfig, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sqlxDB := provideSQLX(dbDB)
	store := storage.NewStore(sqlxDB)
	checkpointStore := storage.NewCheckpointStore(sqlxDB)
	retryPolicy := provideRetryPolicy(configConfig)
	engine := provideEngine(configConfig, checkpointStore, retryPolicy, logger)
	clientFactory, err := provideClientFactory(configConfig, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	client := llm.NewHTTPClient()
	embedder, err := llm.NewEmbedder(configConfig, client, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	vectorStore := provideVectorStore(configConfig, embedder, logger)
	parserRegistry, err := provideParserRegistry(logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	chunker := llm.NewParserChunker(parserRegistry, logger)
	indexer := llm.NewIndexer(vectorStore, chunker, logger)
	manager := repository.New(configConfig, store, clientFactory, indexer, logger)
	retriever := provideRetriever(configConfig, vectorStore, logger)
	modelFactory := llm.NewModelFactory(configConfig, client, logger)
	generator := llm.NewGenerator(modelFactory, logger)
	promptManager, err := llm.NewPromptManager()
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	recorder := jobs.NewRecorder(store, logger)
	reviewJob := jobs.NewReviewJob(configConfig, engine, store, clientFactory, retriever, generator, promptManager, recorder, logger)
	dispatcher := provideDispatcher(configConfig, engine, reviewJob, logger)
	recovery, err := provideRecovery(configConfig, engine, dispatcher, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	trigger := jobs.NewTrigger(store, clientFactory, dispatcher, recorder, logger)
	serverServer := server.NewServer(ctx, configConfig, dispatcher, store, trigger, logger)
	appApp := app.NewApp(configConfig, logger, store, engine, clientFactory, manager, trigger, dispatcher, recovery, serverServer)
	return appApp, func() {
		cleanup2()
		cleanup()
	}, nil
}
