package types

import (
	"context"

	"github.com/xhad/skim/internal/models"
)

// SourceAdapter turns a keyword into documents for one source. An adapter is
// owned by a single acquisition and must be closed by it.
type SourceAdapter interface {
	Fetch(ctx context.Context, keyword string) ([]models.Document, error)
	Close() error
}

// AdapterFactory creates a fresh adapter. It may return a non-nil adapter
// together with an error when creation failed halfway; the caller still
// closes it.
type AdapterFactory func(ctx context.Context) (SourceAdapter, error)

// TextReducer shortens one bounded piece of text into a summary.
type TextReducer interface {
	Reduce(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

type Archive interface {
	Save(ctx context.Context, digest *models.Digest) error
}
