package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/rotisserie/eris"

	"github.com/xhad/skim/internal/models"
)

type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
}

// OpenAIReducer calls OpenAI's Responses API to produce summaries.
type OpenAIReducer struct {
	client openai.Client
	config OpenAIConfig
}

func NewOpenAIReducer(config OpenAIConfig) (*OpenAIReducer, error) {
	if config.APIKey == "" {
		return nil, eris.New("llm: openai api key is required")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIReducer{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

func (r *OpenAIReducer) Reduce(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	resp, err := r.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           r.config.Model,
		MaxOutputTokens: openai.Int(int64(tokenBudget(r.config.MaxTokens, maxLen))),
		Instructions:    openai.String(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(userPrompt(text, maxLen, minLen)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: openai request")
	}

	if resp.Status == "incomplete" {
		return "", eris.Wrapf(models.ErrReduction,
			"llm: openai response incomplete (reason = %s)", resp.IncompleteDetails.Reason)
	}

	summary := strings.TrimSpace(resp.OutputText())
	if summary == "" {
		return "", eris.Wrapf(models.ErrReduction, "llm: openai output text is missing (status = %s)", resp.Status)
	}
	return summary, nil
}
