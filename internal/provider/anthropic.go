package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// defaultAnthropicModel is the model used when no override is provided.
	defaultAnthropicModel = "claude-3-5-haiku-20241022"

	// defaultAnthropicMaxTokens is the default maximum output tokens per request.
	defaultAnthropicMaxTokens = 1024
)

// AnthropicProvider implements Provider using the official Anthropic SDK.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// Compile-time check that AnthropicProvider satisfies the Provider interface.
var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a new Anthropic-backed provider.
// It returns an error if no API key is available (neither via option nor env).
func NewAnthropicProvider(opts ...Option) (*AnthropicProvider, error) {
	cfg := config{model: defaultAnthropicModel}
	for _, o := range opts {
		o(&cfg)
	}

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, &CredentialError{EnvVar: "ANTHROPIC_API_KEY"}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// The scan loop owns retry and backoff; the SDK must not add its own.
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(clientOpts...),
		model:  cfg.model,
	}, nil
}

// Name returns the short provider name.
func (p *AnthropicProvider) Name() string { return NameClaude }

// Model returns the default model configured for this provider.
func (p *AnthropicProvider) Model() string { return p.model }

// Submit sends a request to the Anthropic Messages API.
func (p *AnthropicProvider) Submit(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	// Extract text from content blocks.
	var content string
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += variant.Text
		}
	}

	return &Response{
		Content: content,
		Model:   string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

func classifyAnthropicError(err error) error {
	wrapped := fmt.Errorf("anthropic: submission failed: %w", err)
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, wrapped)
	}
	return wrapped
}
