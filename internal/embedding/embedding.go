package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"study-assistant/internal/config"
)

// Embedder encodes a piece of text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Fitter is implemented by embedders that need to see the document corpus
// before they can encode anything. The index calls Fit once per build.
type Fitter interface {
	Fit(corpus []string) error
}

// New selects an embedder by provider name.
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "local":
		return NewLocal(), nil
	case "ollama":
		return newOllamaEmbedder(cfg)
	case "openai":
		return newOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

// langchainEmbedder adapts a langchaingo embedder to the Embedder interface.
type langchainEmbedder struct {
	impl *embeddings.EmbedderImpl
}

func (e *langchainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.impl.EmbedQuery(ctx, text)
}

func newOllamaEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama embedder: %v", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %v", err)
	}
	return &langchainEmbedder{impl: embedder}, nil
}

func newOpenAIEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.Key),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing openai embedder: %v", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %v", err)
	}
	return &langchainEmbedder{impl: embedder}, nil
}
