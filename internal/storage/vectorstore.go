package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/schema"
	"github.com/sevigo/goframe/vectorstores"
	"github.com/sevigo/goframe/vectorstores/qdrant"

	"github.com/sevigo/code-sentry/internal/util"
)

// VectorStore stores repository chunks per retrieval scope ("owner/repo").
//
//go:generate mockgen -destination=../../mocks/mock_vectorstore.go -package=mocks . VectorStore
type VectorStore interface {
	// AddDocuments embeds and stores documents in the scope's collection.
	AddDocuments(ctx context.Context, scope string, docs []schema.Document) error

	// SimilaritySearch returns up to numDocs documents of the scope, most relevant first.
	SimilaritySearch(ctx context.Context, scope, query string, numDocs int) ([]schema.Document, error)

	// DeleteScope removes the scope's collection and all its data.
	DeleteScope(ctx context.Context, scope string) error
}

// qdrantVectorStore implements VectorStore using Qdrant as the backend.
type qdrantVectorStore struct {
	qdrantHost    string
	embedderModel string
	embedder      embeddings.Embedder
	logger        *slog.Logger
}

// NewQdrantVectorStore creates a new Qdrant-backed vector store. The embedder
// model name takes part in collection naming.
func NewQdrantVectorStore(qdrantHost, embedderModel string, embedder embeddings.Embedder, logger *slog.Logger) VectorStore {
	return &qdrantVectorStore{
		qdrantHost:    qdrantHost,
		embedderModel: embedderModel,
		embedder:      embedder,
		logger:        logger,
	}
}

func (q *qdrantVectorStore) storeFor(scope string) (vectorstores.VectorStore, string, error) {
	if strings.TrimSpace(scope) == "" {
		return nil, "", fmt.Errorf("retrieval scope cannot be empty")
	}
	collection := util.CollectionName(scope, q.embedderModel)
	store, err := qdrant.New(
		qdrant.WithHost(q.qdrantHost),
		qdrant.WithEmbedder(q.embedder),
		qdrant.WithCollectionName(collection),
		qdrant.WithLogger(q.logger),
	)
	if err != nil {
		return nil, collection, fmt.Errorf("failed to get qdrant store for collection %s: %w", collection, err)
	}
	return store, collection, nil
}

func (q *qdrantVectorStore) AddDocuments(ctx context.Context, scope string, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}
	store, collection, err := q.storeFor(scope)
	if err != nil {
		return err
	}
	if _, err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to add documents to qdrant collection %s: %w", collection, err)
	}
	q.logger.Debug("documents stored", "collection", collection, "count", len(docs))
	return nil
}

func (q *qdrantVectorStore) SimilaritySearch(ctx context.Context, scope, query string, numDocs int) ([]schema.Document, error) {
	store, collection, err := q.storeFor(scope)
	if err != nil {
		return nil, err
	}
	docs, err := store.SimilaritySearch(ctx, query, numDocs)
	if err != nil {
		return nil, fmt.Errorf("similarity search in collection %s failed: %w", collection, err)
	}
	return docs, nil
}

func (q *qdrantVectorStore) DeleteScope(ctx context.Context, scope string) error {
	store, collection, err := q.storeFor(scope)
	if err != nil {
		return err
	}
	if err := store.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to delete qdrant collection %s: %w", collection, err)
	}
	return nil
}
