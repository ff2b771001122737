package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/pkg/config"
	"github.com/xhad/skim/pkg/llm"
)

const article = "Go 1.25 ships a container-aware GOMAXPROCS and a new experimental garbage collector."

func ollamaServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, "in 30 to 100 words")
			assert.Contains(t, req.Messages[1].Content, article)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"model":   "mistral",
			"message": map[string]any{"role": "assistant", "content": reply},
			"done":    true,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestOllamaReducer_Reduce(t *testing.T) {
	ts := ollamaServer(t, "  Go 1.25 tunes the runtime for containers.\n")

	r, err := llm.NewOllamaReducer(llm.OllamaConfig{Model: "mistral", Temperature: 0.2, BaseURL: ts.URL})
	require.NoError(t, err)

	summary, err := r.Reduce(context.Background(), article, 100, 30)
	require.NoError(t, err)
	assert.Equal(t, "Go 1.25 tunes the runtime for containers.", summary)
}

func TestOllamaReducer_EmptySummary(t *testing.T) {
	ts := ollamaServer(t, "   ")

	r, err := llm.NewOllamaReducer(llm.OllamaConfig{Model: "mistral", Temperature: 0.2, BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = r.Reduce(context.Background(), article, 100, 30)
	assert.ErrorIs(t, err, models.ErrReduction)
}

func TestNewOllamaReducer_InvalidConfig(t *testing.T) {
	_, err := llm.NewOllamaReducer(llm.OllamaConfig{Temperature: 3})
	assert.Error(t, err)

	_, err = llm.NewOllamaReducer(llm.OllamaConfig{MaxTokens: -1})
	assert.Error(t, err)
}

func TestOpenAIReducer_Reduce(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.Contains(t, req["input"], article)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":         "resp_test",
			"object":     "response",
			"created_at": 0,
			"model":      "gpt-4o-mini",
			"status":     "completed",
			"output": []map[string]any{{
				"type":   "message",
				"id":     "msg_test",
				"status": "completed",
				"role":   "assistant",
				"content": []map[string]any{
					{"type": "output_text", "text": " Runtime tuned for containers. ", "annotations": []any{}},
				},
			}},
		})
	}))
	defer ts.Close()

	r, err := llm.NewOpenAIReducer(llm.OpenAIConfig{APIKey: "test-key", BaseURL: ts.URL})
	require.NoError(t, err)

	summary, err := r.Reduce(context.Background(), article, 100, 30)
	require.NoError(t, err)
	assert.Equal(t, "Runtime tuned for containers.", summary)
}

func TestAnthropicReducer_Reduce(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			System    []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-haiku-4-5-20251001", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		assert.Len(t, req.System, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_test_001",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "Container-aware runtime."},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer ts.Close()

	r, err := llm.NewAnthropicReducer(llm.AnthropicConfig{APIKey: "test-key", BaseURL: ts.URL})
	require.NoError(t, err)

	summary, err := r.Reduce(context.Background(), article, 100, 30)
	require.NoError(t, err)
	assert.Equal(t, "Container-aware runtime.", summary)
}

func TestNewReducer(t *testing.T) {
	r, err := llm.NewReducer(config.LLMConfig{Provider: "ollama", Model: "mistral", Temperature: 0.2})
	require.NoError(t, err)
	assert.IsType(t, &llm.OllamaReducer{}, r)

	r, err = llm.NewReducer(config.LLMConfig{Provider: "openai", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIReducer{}, r)

	r, err = llm.NewReducer(config.LLMConfig{Provider: "anthropic", AnthropicKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &llm.AnthropicReducer{}, r)

	_, err = llm.NewReducer(config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = llm.NewReducer(config.LLMConfig{Provider: "bart"})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestShared_ReturnsSameHandle(t *testing.T) {
	first, err := llm.Shared(config.LLMConfig{Provider: "ollama", Temperature: 0.2})
	require.NoError(t, err)

	second, err := llm.Shared(config.LLMConfig{Provider: "openai", OpenAIKey: "ignored"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}
