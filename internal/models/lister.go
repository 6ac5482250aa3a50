package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister lists the models available on an Ollama server through its
// OpenAI-compatible /v1/models endpoint.
type Lister struct {
	host   string
	client *openai.Client
}

// NewLister creates a model lister for an Ollama host
func NewLister(host string) *Lister {
	config := openai.DefaultConfig("ollama")
	config.BaseURL = strings.TrimRight(host, "/") + "/v1"
	return &Lister{
		host:   host,
		client: openai.NewClientWithConfig(config),
	}
}

// ListAvailableModels prints the models pulled on the server
func (l *Lister) ListAvailableModels() error {
	ctx := context.Background()
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models (is Ollama running at %s?): %w", l.host, err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	sort.Strings(ids)

	fmt.Printf("Models available at %s:\n", l.host)
	if len(ids) == 0 {
		fmt.Println("  No models pulled. Try: ollama pull aya-expanse")
		return nil
	}
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}

	return nil
}
