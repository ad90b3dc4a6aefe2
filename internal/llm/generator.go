// Package llm wraps the language-model collaborators of the review pipeline:
// text generation, context retrieval and repository indexing.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/code-sentry/internal/config"
)

// Generator produces text for a prompt with a given model id.
//
//go:generate mockgen -destination=../../mocks/mock_llm.go -package=mocks . Generator,Retriever,Indexer
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ModelFactory creates a goframe model for a model id.
type ModelFactory func(ctx context.Context, model string) (llms.Model, error)

// NewModelFactory returns a factory for the configured LLM provider.
func NewModelFactory(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) ModelFactory {
	return func(ctx context.Context, model string) (llms.Model, error) {
		switch cfg.AI.LLMProvider {
		case "gemini":
			if cfg.AI.GeminiAPIKey == "" {
				return nil, fmt.Errorf("gemini API key is not configured")
			}
			return gemini.New(ctx,
				gemini.WithModel(model),
				gemini.WithAPIKey(cfg.AI.GeminiAPIKey),
			)
		case "ollama":
			return ollama.New(
				ollama.WithServerURL(cfg.AI.OllamaHost),
				ollama.WithModel(model),
				ollama.WithHTTPClient(httpClient),
				ollama.WithLogger(logger),
			)
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.AI.LLMProvider)
		}
	}
}

// NewEmbedder connects the ollama embedding model used for repository indexing.
func NewEmbedder(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (embeddings.Embedder, error) {
	embedderLLM, err := ollama.New(
		ollama.WithServerURL(cfg.AI.OllamaHost),
		ollama.WithModel(cfg.AI.EmbedderModel),
		ollama.WithHTTPClient(httpClient),
		ollama.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder LLM: %w", err)
	}
	return embeddings.NewEmbedder(embedderLLM)
}

// NewHTTPClient returns the HTTP client used for local model servers. Model
// calls are slow, so the timeout is generous.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}

type completion func(ctx context.Context, prompt string) (string, error)

type generator struct {
	newCompletion func(ctx context.Context, model string) (completion, error)
	logger        *slog.Logger

	mu     sync.Mutex
	models map[string]completion
}

// NewGenerator returns a Generator that creates one model client per model id
// on first use and reuses it afterwards.
func NewGenerator(factory ModelFactory, logger *slog.Logger) Generator {
	return &generator{
		newCompletion: func(ctx context.Context, model string) (completion, error) {
			m, err := factory(ctx, model)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, prompt string) (string, error) {
				return m.Call(ctx, prompt)
			}, nil
		},
		logger: logger,
		models: make(map[string]completion),
	}
}

func (g *generator) model(ctx context.Context, name string) (completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.models[name]; ok {
		return c, nil
	}
	g.logger.Info("creating LLM client", "model", name)
	c, err := g.newCompletion(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client for model %s: %w", name, err)
	}
	g.models[name] = c
	return c, nil
}

func (g *generator) Generate(ctx context.Context, prompt, model string) (string, error) {
	call, err := g.model(ctx, model)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed with model %s: %w", model, err)
	}
	g.logger.Info("LLM response generated", "model", model, "chars", len(text), "duration", time.Since(start))
	return text, nil
}
