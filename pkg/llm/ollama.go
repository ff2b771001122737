package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/xhad/skim/internal/models"
)

// OllamaConfig represents the configuration for a local Ollama reducer.
type OllamaConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string // Ollama server URL
}

// OllamaReducer summarizes text with a model served by Ollama.
type OllamaReducer struct {
	config OllamaConfig
	llm    llms.Model
}

func NewOllamaReducer(config OllamaConfig) (*OllamaReducer, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, eris.New("llm: temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, eris.New("llm: max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 512
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, eris.Wrap(err, "llm: initialize ollama")
	}

	return &OllamaReducer{
		config: config,
		llm:    llm,
	}, nil
}

func (r *OllamaReducer) Reduce(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt(text, maxLen, minLen)),
	}

	resp, err := r.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(tokenBudget(r.config.MaxTokens, maxLen)),
		llms.WithTemperature(r.config.Temperature))
	if err != nil {
		return "", eris.Wrap(err, "llm: ollama generate")
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", eris.Wrap(models.ErrReduction, "llm: ollama returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Content)
	if summary == "" {
		return "", eris.Wrap(models.ErrReduction, "llm: ollama returned empty summary")
	}
	return summary, nil
}
