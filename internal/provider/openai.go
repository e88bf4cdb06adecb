package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// defaultOpenAIModel is the model used when no override is provided.
	defaultOpenAIModel = "gpt-4o-mini"

	// defaultOpenAIMaxTokens is the default maximum output tokens per request.
	defaultOpenAIMaxTokens = 500
)

// OpenAIProvider implements Provider using the go-openai client.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// Compile-time check that OpenAIProvider satisfies the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI-backed provider.
// It returns an error if no API key is available (neither via option nor env).
func NewOpenAIProvider(opts ...Option) (*OpenAIProvider, error) {
	cfg := config{model: defaultOpenAIModel}
	for _, o := range opts {
		o(&cfg)
	}

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, &CredentialError{EnvVar: "OPENAI_API_KEY"}
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.model,
	}, nil
}

// Name returns the short provider name.
func (p *OpenAIProvider) Name() string { return NameOpenAI }

// Model returns the default model configured for this provider.
func (p *OpenAIProvider) Model() string { return p.model }

// Submit sends a request to the OpenAI Chat Completions API.
func (p *OpenAIProvider) Submit(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := defaultOpenAIMaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	ccr := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	// Reasoning models (o1/o3/o4/gpt-5*) reject max_tokens and take
	// max_completion_tokens instead.
	if isReasoningModel(model) {
		ccr.MaxCompletionTokens = maxTokens
	} else {
		ccr.MaxTokens = maxTokens
	}

	if req.Temperature != nil {
		ccr.Temperature = float32(*req.Temperature)
	}

	resp, err := p.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: no choices in response")
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func classifyOpenAIError(err error) error {
	wrapped := fmt.Errorf("openai: submission failed: %w", err)
	apiErr := &openai.APIError{}
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, wrapped)
	}
	return wrapped
}
