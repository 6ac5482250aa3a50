package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible /v1 endpoint.
type OllamaProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOllamaProvider creates a provider for a local Ollama server
func NewOllamaProvider(config *Config) *OllamaProvider {
	host := config.OllamaHost
	if host == "" {
		host = defaultOllamaHost
	}

	// Ollama ignores the API key, but the client requires one
	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = strings.TrimRight(host, "/") + "/v1"

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &OllamaProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       config.Model,
		temperature: config.Temperature,
		timeout:     timeout,
	}
}

// Chat sends a system+user prompt pair and returns the trimmed completion
func (p *OllamaProvider) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.model == "" {
		return "", fmt.Errorf("no model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ollama API error (is model '%s' pulled?): %w", p.model, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no completion returned for model %s", p.model)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
