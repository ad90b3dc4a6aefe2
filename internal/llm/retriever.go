package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/code-sentry/internal/storage"
)

const defaultContextDocuments = 5

// Retriever returns the repository snippets most relevant to a query, in rank order.
type Retriever interface {
	Retrieve(ctx context.Context, query, scope string) ([]string, error)
}

type vectorRetriever struct {
	store   storage.VectorStore
	numDocs int
	logger  *slog.Logger
}

// NewRetriever returns a Retriever backed by the vector store. numDocs <= 0
// means the default of five snippets.
func NewRetriever(store storage.VectorStore, numDocs int, logger *slog.Logger) Retriever {
	if numDocs <= 0 {
		numDocs = defaultContextDocuments
	}
	return &vectorRetriever{store: store, numDocs: numDocs, logger: logger}
}

func (r *vectorRetriever) Retrieve(ctx context.Context, query, scope string) ([]string, error) {
	docs, err := r.store.SimilaritySearch(ctx, scope, query, r.numDocs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context for %s: %w", scope, err)
	}

	snippets := make([]string, 0, len(docs))
	for _, doc := range docs {
		content := doc.PageContent
		// prefer the enclosing declaration when the chunk is part of one
		if parent, ok := doc.Metadata["full_parent_text"].(string); ok && parent != "" {
			content = parent
		}
		if content == "" {
			continue
		}
		snippets = append(snippets, content)
	}
	r.logger.Debug("context retrieved", "scope", scope, "snippets", len(snippets))
	return snippets, nil
}
