package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/xhad/skim/internal/models"
)

type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string
}

// AnthropicReducer summarizes text with the Anthropic Messages API.
type AnthropicReducer struct {
	client sdk.Client
	config AnthropicConfig
}

func NewAnthropicReducer(config AnthropicConfig) (*AnthropicReducer, error) {
	if config.APIKey == "" {
		return nil, eris.New("llm: anthropic api key is required")
	}
	if config.Model == "" {
		config.Model = "claude-haiku-4-5-20251001"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicReducer{
		client: sdk.NewClient(opts...),
		config: config,
	}, nil
}

func (r *AnthropicReducer) Reduce(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(r.config.Model),
		MaxTokens: int64(tokenBudget(r.config.MaxTokens, maxLen)),
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt(text, maxLen, minLen))),
		},
	}
	if r.config.Temperature > 0 {
		params.Temperature = sdk.Float(r.config.Temperature)
	}

	msg, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", eris.Wrapf(models.ErrReduction, "llm: anthropic returned empty summary (stop reason = %s)", msg.StopReason)
	}
	return summary, nil
}
