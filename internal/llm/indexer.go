package llm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/goframe/parsers"
	"github.com/sevigo/goframe/schema"
	"github.com/sevigo/goframe/textsplitter"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/storage"
)

const (
	indexBatchSize     = 64
	maxParentTextChars = 2000
)

// Indexer feeds crawled repository files into the retrieval corpus of a scope.
type Indexer interface {
	// Index chunks the entries and stores them, returning the number of documents written.
	Index(ctx context.Context, scope string, entries []core.CrawlEntry) (int, error)
	// Drop removes the scope's corpus.
	Drop(ctx context.Context, scope string) error
}

// Chunker splits one file into retrieval documents.
type Chunker interface {
	Documents(path, content string) ([]schema.Document, error)
}

type parserChunker struct {
	registry parsers.ParserRegistry
	logger   *slog.Logger
}

// NewParserChunker returns a Chunker using goframe's language parsers. Files
// without a parser become a single document.
func NewParserChunker(registry parsers.ParserRegistry, logger *slog.Logger) Chunker {
	return &parserChunker{registry: registry, logger: logger}
}

func (c *parserChunker) Documents(path, content string) ([]schema.Document, error) {
	// Qdrant payloads must be valid UTF-8.
	content = strings.ToValidUTF8(content, "")
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	parser, err := c.registry.GetParserForFile(path, nil)
	if err != nil {
		c.logger.Debug("no parser for file, indexing as a whole", "file", path)
		return []schema.Document{schema.NewDocument(content, map[string]any{
			"id":     documentID(path, 0, 0),
			"source": path,
		})}, nil
	}

	chunks, err := parser.Chunk(content, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk %s: %w", path, err)
	}

	docs := make([]schema.Document, 0, len(chunks))
	for _, chunk := range chunks {
		doc := schema.NewDocument(chunk.Content, map[string]any{
			"id":               documentID(path, chunk.LineStart, chunk.LineEnd),
			"source":           path,
			"identifier":       chunk.Identifier,
			"chunk_type":       chunk.Type,
			"line_start":       chunk.LineStart,
			"line_end":         chunk.LineEnd,
			"full_parent_text": textsplitter.TruncateParentText(chunk.FullParentText, maxParentTextChars),
		})
		docs = append(docs, doc)
	}
	return docs, nil
}

// documentID is deterministic so re-indexing a file overwrites its points.
// The hash is formatted as a UUID, which qdrant accepts as point id.
func documentID(path string, lineStart, lineEnd any) string {
	h := sha256.New()
	h.Write([]byte(path))
	fmt.Fprintf(h, ":%v:%v", lineStart, lineEnd)
	sum := h.Sum(nil)
	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}

type vectorIndexer struct {
	store   storage.VectorStore
	chunker Chunker
	logger  *slog.Logger
}

// NewIndexer returns an Indexer writing to the vector store.
func NewIndexer(store storage.VectorStore, chunker Chunker, logger *slog.Logger) Indexer {
	return &vectorIndexer{store: store, chunker: chunker, logger: logger}
}

func (ix *vectorIndexer) Index(ctx context.Context, scope string, entries []core.CrawlEntry) (int, error) {
	var batch []schema.Document
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.store.AddDocuments(ctx, scope, batch); err != nil {
			return fmt.Errorf("failed to index %s: %w", scope, err)
		}
		written += len(batch)
		batch = nil
		return nil
	}

	for _, entry := range entries {
		docs, err := ix.chunker.Documents(entry.Path, entry.Content)
		if err != nil {
			ix.logger.Warn("skipping file that could not be chunked", "scope", scope, "file", entry.Path, "error", err)
			continue
		}
		batch = append(batch, docs...)
		if len(batch) >= indexBatchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}

	ix.logger.Info("repository indexed", "scope", scope, "files", len(entries), "documents", written)
	return written, nil
}

func (ix *vectorIndexer) Drop(ctx context.Context, scope string) error {
	return ix.store.DeleteScope(ctx, scope)
}
