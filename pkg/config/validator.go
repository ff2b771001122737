package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	switch c.LLM.Provider {
	case "ollama":
		if c.LLM.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required",
			})
		} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid Ollama base URL",
			})
		}
	case "openai":
		if c.LLM.OpenAIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.openai_api_key",
				Message: "OpenAI API key is required for the openai provider",
			})
		}
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.anthropic_api_key",
				Message: "Anthropic API key is required for the anthropic provider",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate reduce config
	if c.Reduce.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "reduce.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Reduce.MaxWorkers < 1 {
		errors = append(errors, ValidationError{
			Field:   "reduce.max_workers",
			Message: "max_workers must be positive",
		})
	}

	if c.Reduce.MinLength < 0 || c.Reduce.MinLength > c.Reduce.MaxLength {
		errors = append(errors, ValidationError{
			Field:   "reduce.min_length",
			Message: "min_length must be non-negative and not greater than max_length",
		})
	}

	// A negative acquire.timeout disables the per-source deadline.
	if c.Reduce.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.timeout",
			Message: "timeout must not be negative",
		})
	}

	// Validate scraper config
	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Scraper.MaxArticles < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_articles",
			Message: "max_articles must be positive",
		})
	}

	// Validate database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	return errors
}
