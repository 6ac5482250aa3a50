package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// Provider is a prompt-in/text-out inference endpoint. The workflow treats
// it as an opaque completion oracle; all structure lives in the prompts.
type Provider interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds the model backend configuration
type Config struct {
	// Backend selects the provider: "ollama" or "gemini"
	Backend string

	// OllamaHost is the base URL of the local Ollama server
	OllamaHost string

	// GeminiKey is the Gemini API key (gemini backend only)
	GeminiKey string

	// Model is the model identifier, e.g. "aya-expanse" or "llama3.1"
	Model string

	Temperature float32
	Timeout     time.Duration
}

// NewProvider creates a model provider based on the configuration.
// Every provider is wrapped in a circuit breaker so that a dead model
// server fails fast instead of blocking each content unit on a timeout.
func NewProvider(config *Config) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch config.Backend {
	case "ollama", "":
		provider = NewOllamaProvider(config)
	case "gemini":
		provider, err = NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown model backend: %s", config.Backend)
	}

	return withBreaker(provider, config.Backend), nil
}

// breakerProvider wraps a Provider with a circuit breaker. No retries
// happen here; an open breaker is surfaced to the caller as an error.
type breakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

func withBreaker(provider Provider, name string) Provider {
	if name == "" {
		name = "ollama"
	}
	settings := gobreaker.Settings{
		Name:    name + "-chat",
		Timeout: 30 * time.Second,
	}
	return &breakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerProvider) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.provider.Chat(ctx, systemPrompt, userPrompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
