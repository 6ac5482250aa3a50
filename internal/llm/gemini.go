package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider runs prompts against the Gemini API. It exists for
// machines that cannot host a local model large enough for literary
// Japanese; the workflow does not care which backend answers.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiProvider creates a Gemini-backed provider
func NewGeminiProvider(config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured. Set GEMINI_API_KEY or llm.gemini_key in the config file")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &GeminiProvider{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		timeout:     timeout,
	}, nil
}

// Chat sends a system+user prompt pair and returns the trimmed completion
func (p *GeminiProvider) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.model == "" {
		return "", fmt.Errorf("no model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned for model %s", p.model)
	}

	return text, nil
}
