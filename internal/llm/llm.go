// Package llm provides the generative-model provider glue and the agent
// that adapts a provider to the analysis contract.
package llm

import (
	"context"
	"fmt"
	"os"
)

// Provider identifies an LLM provider.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string
}

// Response is a completed generation.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Client is the minimal completion capability each provider implements.
type Client interface {
	Complete(ctx context.Context, messages []Message) (*Response, error)
	Provider() Provider
	Model() string
}

// Default models per provider.
var defaultModels = map[Provider]string{
	ProviderGoogle:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-5",
}

// apiKeyEnv maps providers to the environment variable carrying their key.
var apiKeyEnv = map[Provider]string{
	ProviderGoogle:    "GOOGLE_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// NewClient creates a client for the named provider. The API key comes from
// the provider's environment variable; an empty model selects the default.
func NewClient(provider Provider, model string) (Client, error) {
	envVar, ok := apiKeyEnv[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable required for provider %s", envVar, provider)
	}
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case ProviderGoogle:
		return NewGoogleClient(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model), nil
	}
	return nil, fmt.Errorf("unknown provider: %s", provider)
}
