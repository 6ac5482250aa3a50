package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Element is one content unit of a scenario file. Only the "text" lines are
// translatable; the label, speaker names and voice tags are engine metadata
// that must be carried through translation byte for byte. Name and voice tag
// slots may be null when a line has no speaker or voice.
type Element struct {
	TextLabel *string   `json:"text label"`
	Names     []*string `json:"Name"`
	VoiceTags []*string `json:"voice tag"`
	Text      []string  `json:"text"`
}

// File is the on-disk scenario JSON format: {"content": [...]}
type File struct {
	Content []Element `json:"content"`
}

// ReadContentFile reads a scenario JSON file
func ReadContentFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid scenario JSON in %s: %w", path, err)
	}
	return &f, nil
}

// WriteContentFile writes a scenario JSON file with indentation and without
// HTML escaping, so Japanese text and RUBY tags stay readable.
func WriteContentFile(path string, f *File) error {
	if f.Content == nil {
		f.Content = []Element{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to serialize scenario content: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	return nil
}
