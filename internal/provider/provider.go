// Package provider gives llmscan a provider-agnostic client interface over
// the hosted LLM APIs it submits code to, with implementations backed by the
// official vendor SDKs.
package provider

import (
	"context"
	"fmt"
	"strings"
)

// Short provider names as accepted by the CLI and recorded in report
// filenames.
const (
	NameOpenAI = "openai"
	NameClaude = "claude"
)

// Provider abstracts an LLM API behind a single synchronous submission method.
type Provider interface {
	// Name returns the short provider name ("openai" or "claude").
	Name() string

	// Model returns the default model used when a request has no override.
	Model() string

	// Submit sends a prompt to the LLM and returns the response.
	// Implementations must respect context cancellation and deadlines.
	Submit(ctx context.Context, req Request) (*Response, error)
}

// Request describes a single submission.
type Request struct {
	// Prompt is the user message to send.
	Prompt string

	// Model overrides the provider's default model. If empty, the provider
	// uses its configured default.
	Model string

	// MaxTokens limits the response length. If zero, the provider uses its
	// own default.
	MaxTokens int

	// Temperature controls randomness. If nil, the provider uses its default.
	Temperature *float64
}

// Response holds the result of a submission.
type Response struct {
	// Content is the text returned by the model.
	Content string

	// Model is the model that actually served the request (may differ from
	// the requested model if the provider remapped it).
	Model string

	// Usage reports token consumption.
	Usage Usage
}

// Usage tracks input and output token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the combined token count for the request.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Option configures a provider at construction time. All providers share the
// same option set.
type Option func(*config)

type config struct {
	apiKey  string
	model   string
	baseURL string
}

// WithAPIKey sets the API key. If not provided, the provider reads its
// vendor's environment variable (OPENAI_API_KEY or ANTHROPIC_API_KEY).
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// WithModel overrides the default model for all requests.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the provider at an alternate API endpoint. Used by
// tests to target a local server.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// New constructs the provider named by the CLI's --api flag. "anthropic" is
// accepted as an alias for "claude".
func New(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(name) {
	case NameOpenAI:
		return NewOpenAIProvider(opts...)
	case NameClaude, "anthropic":
		return NewAnthropicProvider(opts...)
	}
	return nil, fmt.Errorf("provider: unknown provider %q (want %q or %q)", name, NameOpenAI, NameClaude)
}

// Label returns the human-readable provider and model tag recorded in report
// results, e.g. "OpenAI gpt-4o-mini".
func Label(p Provider) string {
	switch p.Name() {
	case NameOpenAI:
		return "OpenAI " + p.Model()
	case NameClaude:
		return "Anthropic " + p.Model()
	}
	return p.Name() + " " + p.Model()
}
