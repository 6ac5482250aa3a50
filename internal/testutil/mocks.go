package testutil

import (
	"context"
	"fmt"
)

// MockProvider is a scripted llm.Provider for tests. It returns the
// configured responses in order (repeating the last one) and records every
// prompt it receives.
type MockProvider struct {
	Responses []string
	Err       error

	SystemPrompts []string
	UserPrompts   []string
	calls         int
}

// Chat returns the next scripted response
func (m *MockProvider) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.SystemPrompts = append(m.SystemPrompts, systemPrompt)
	m.UserPrompts = append(m.UserPrompts, userPrompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock provider has no responses configured")
	}

	i := m.calls
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	m.calls++
	return m.Responses[i], nil
}

// Calls returns how many times Chat was invoked
func (m *MockProvider) Calls() int {
	return m.calls
}

// StaticChunker is a Chunker that returns its configured chunks regardless
// of input, so workflow tests do not depend on the tokenizer data files.
type StaticChunker struct {
	Chunks []string
}

// Chunk returns the configured chunks; empty input still yields no chunks
func (s *StaticChunker) Chunk(text string, tokensPerChunk int) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	return s.Chunks, nil
}
