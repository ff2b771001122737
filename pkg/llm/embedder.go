package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms/ollama"
)

type EmbedderConfig struct {
	Model   string
	BaseURL string // Ollama server URL
}

// Embedder turns summaries into vectors for archive similarity search.
type Embedder struct {
	config EmbedderConfig
	embed  *ollama.LLM
}

func NewEmbedder(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	emb, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, eris.Wrap(err, "llm: initialize embedder")
	}

	return &Embedder{
		config: config,
		embed:  emb,
	}, nil
}

// CreateEmbedding returns one vector per input text.
func (e *Embedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := e.embed.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: embed %d texts with %s", len(texts), e.config.Model)
	}
	if len(vectors) != len(texts) {
		return nil, eris.Errorf("llm: embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
