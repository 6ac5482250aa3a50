// Package chunk slices input text into model-sized pieces using the
// cl100k_base tokenizer, so chunk boundaries are measured in tokens rather
// than bytes and never split a multibyte character.
package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tokenizer used for chunk size measurement
const DefaultEncoding = "cl100k_base"

// Chunker splits text into fixed token-count chunks
type Chunker struct {
	encoding *tiktoken.Tiktoken
}

// New creates a chunker for the named tiktoken encoding
func New(encodingName string) (*Chunker, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer encoding %s: %w", encodingName, err)
	}
	return &Chunker{encoding: encoding}, nil
}

// Chunk splits text into pieces of at most tokensPerChunk tokens.
// Empty text yields no chunks.
func (c *Chunker) Chunk(text string, tokensPerChunk int) ([]string, error) {
	if tokensPerChunk <= 0 {
		return nil, fmt.Errorf("tokens per chunk must be positive, got %d", tokensPerChunk)
	}
	if text == "" {
		return nil, nil
	}

	tokens := c.encoding.Encode(text, nil, nil)

	var chunks []string
	for i := 0; i < len(tokens); i += tokensPerChunk {
		end := i + tokensPerChunk
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.encoding.Decode(tokens[i:end]))
	}
	return chunks, nil
}
