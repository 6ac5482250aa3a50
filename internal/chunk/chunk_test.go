package chunk

import (
	"strings"
	"testing"
)

// newTestChunker skips the test when the tokenizer data is unavailable
// (first use downloads the BPE ranks).
func newTestChunker(t *testing.T) *Chunker {
	t.Helper()
	c, err := New(DefaultEncoding)
	if err != nil {
		t.Skipf("Skipping: tokenizer encoding unavailable: %v", err)
	}
	return c
}

func TestChunkEmptyText(t *testing.T) {
	c := newTestChunker(t)

	chunks, err := c.Chunk("", 500)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestChunkShortText(t *testing.T) {
	c := newTestChunker(t)

	text := "吾輩は猫である。名前はまだ無い。"
	chunks, err := c.Chunk(text, 500)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk mangled the text: %q", chunks[0])
	}
}

func TestChunkSplitsAndReassembles(t *testing.T) {
	c := newTestChunker(t)

	text := strings.Repeat("どこで生れたかとんと見当がつかぬ。", 100)
	chunks, err := c.Chunk(text, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks differ from the input text")
	}
}

func TestChunkInvalidSize(t *testing.T) {
	c := newTestChunker(t)

	if _, err := c.Chunk("text", 0); err == nil {
		t.Error("expected error for non-positive chunk size")
	}
}
