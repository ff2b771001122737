// Package llm provides the Text Reducer backends and the embedder.
package llm

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/xhad/skim/internal/types"
	"github.com/xhad/skim/pkg/config"
)

const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewReducer builds the backend named by cfg.Provider.
func NewReducer(cfg config.LLMConfig) (types.TextReducer, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaReducer(OllamaConfig{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			BaseURL:     cfg.BaseURL,
		})
	case ProviderOpenAI:
		return NewOpenAIReducer(OpenAIConfig{
			APIKey:    cfg.OpenAIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	case ProviderAnthropic:
		return NewAnthropicReducer(AnthropicConfig{
			APIKey:      cfg.AnthropicKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

var shared struct {
	mu   sync.Mutex
	init func() (types.TextReducer, error)
}

// Shared returns the process-wide reducer. It is built once from the first
// configuration passed in; later calls return the same handle or error.
func Shared(cfg config.LLMConfig) (types.TextReducer, error) {
	shared.mu.Lock()
	if shared.init == nil {
		shared.init = sync.OnceValues(func() (types.TextReducer, error) {
			return NewReducer(cfg)
		})
	}
	init := shared.init
	shared.mu.Unlock()

	return init()
}
