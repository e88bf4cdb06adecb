package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davetashner/llmscan/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider_WithAPIKey(t *testing.T) {
	p, err := provider.NewOpenAIProvider(provider.WithAPIKey("test-key-123"))
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewOpenAIProvider_FromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-test-key")

	p, err := provider.NewOpenAIProvider()
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewOpenAIProvider_NoKeyError(t *testing.T) {
	// Clear env to ensure no key is available.
	t.Setenv("OPENAI_API_KEY", "")

	p, err := provider.NewOpenAIProvider()
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	var ce *provider.CredentialError
	assert.ErrorAs(t, err, &ce)
}

func TestNewOpenAIProvider_DefaultModel(t *testing.T) {
	p, err := provider.NewOpenAIProvider(provider.WithAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.Model())
	assert.Equal(t, provider.NameOpenAI, p.Name())
}

// openaiResponse is the JSON shape returned by the Chat Completions API.
type openaiResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// newOpenAIServer returns an httptest server that responds with the given
// openaiResponse, and captures the request body for assertions.
func newOpenAIServer(t *testing.T, resp openaiResponse, statusCode int, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				*captured = body
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAISubmit_Defaults(t *testing.T) {
	var captured map[string]interface{}
	srv := newOpenAIServer(t, openaiResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-4o-mini",
		Choices: []openaiChoice{
			{Message: openaiMessage{Role: "assistant", Content: "no issues found"}, FinishReason: "stop"},
		},
		Usage: openaiUsage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	resp, err := p.Submit(context.Background(), provider.Request{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "no issues found", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 4, resp.Usage.OutputTokens)
	assert.Equal(t, 16, resp.Usage.Total())

	// Verify defaults sent to API.
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, float64(500), captured["max_tokens"])
}

func TestOpenAISubmit_ModelOverride(t *testing.T) {
	var captured map[string]interface{}
	srv := newOpenAIServer(t, openaiResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4o",
		Choices: []openaiChoice{
			{Message: openaiMessage{Role: "assistant", Content: "ok"}},
		},
		Usage: openaiUsage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	resp, err := p.Submit(context.Background(), provider.Request{Prompt: "hi", Model: "gpt-4o"})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, "gpt-4o", captured["model"])
}

func TestOpenAISubmit_ReasoningModelTokenField(t *testing.T) {
	var captured map[string]interface{}
	srv := newOpenAIServer(t, openaiResponse{
		ID:    "chatcmpl-test",
		Model: "o3-mini",
		Choices: []openaiChoice{
			{Message: openaiMessage{Role: "assistant", Content: "ok"}},
		},
		Usage: openaiUsage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi", Model: "o3-mini"})
	require.NoError(t, err)

	// Reasoning models take max_completion_tokens, not max_tokens.
	assert.Equal(t, float64(500), captured["max_completion_tokens"])
	_, hasMaxTokens := captured["max_tokens"]
	assert.False(t, hasMaxTokens, "max_tokens should not be sent for reasoning models")
}

func TestOpenAISubmit_Temperature(t *testing.T) {
	var captured map[string]interface{}
	srv := newOpenAIServer(t, openaiResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4o-mini",
		Choices: []openaiChoice{
			{Message: openaiMessage{Role: "assistant", Content: "ok"}},
		},
		Usage: openaiUsage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	temp := 0.1
	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi", Temperature: &temp})
	require.NoError(t, err)

	assert.InDelta(t, 0.1, captured["temperature"], 0.0001)
}

func TestOpenAISubmit_RateLimitClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi"})
	require.Error(t, err)

	var rl *provider.RateLimitError
	assert.ErrorAs(t, err, &rl)
	assert.True(t, provider.IsRetryable(err))
}

func TestOpenAISubmit_AuthClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("bad-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, provider.IsAuthError(err))
	assert.False(t, provider.IsRetryable(err))
}

func TestOpenAISubmit_ServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi"})
	require.Error(t, err)

	var se *provider.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.True(t, provider.IsRetryable(err))
}

func TestOpenAISubmit_NoChoices(t *testing.T) {
	srv := newOpenAIServer(t, openaiResponse{
		ID:      "chatcmpl-test",
		Model:   "gpt-4o-mini",
		Choices: []openaiChoice{},
		Usage:   openaiUsage{PromptTokens: 5},
	}, http.StatusOK, nil)
	defer srv.Close()

	p, err := provider.NewOpenAIProvider(
		provider.WithAPIKey("test-key"),
		provider.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), provider.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
