package glossary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Madsy420/LLMJapTranslator/internal/jsonblock"
)

// Entry is one glossary record. The JSON keys are the externally documented
// glossary file format and must not change.
type Entry struct {
	JapaneseName    string `json:"japanesename"`
	EnglishPhonetic string `json:"englishphonetic"`
	ActualName      string `json:"actualname"`
	Gender          string `json:"gender"`
	IsChar          bool   `json:"ischar"`
}

// Glossary is an ordered list of entries with a lookup index on the
// Japanese name. It is loaded wholesale per run and read-only afterwards.
type Glossary struct {
	entries []Entry
	byName  map[string]Entry
}

// New builds a glossary from entries, keeping the first occurrence of each
// Japanese name.
func New(entries []Entry) *Glossary {
	g := &Glossary{byName: make(map[string]Entry)}
	for _, e := range entries {
		if _, seen := g.byName[e.JapaneseName]; seen {
			continue
		}
		g.byName[e.JapaneseName] = e
		g.entries = append(g.entries, e)
	}
	return g
}

// Entries returns the entries in load order
func (g *Glossary) Entries() []Entry {
	return g.entries
}

// Len returns the number of entries
func (g *Glossary) Len() int {
	return len(g.entries)
}

// Lookup returns the entry for a Japanese name
func (g *Glossary) Lookup(japaneseName string) (Entry, bool) {
	e, ok := g.byName[japaneseName]
	return e, ok
}

// steeringEntry is the per-name value embedded in translation prompts
type steeringEntry struct {
	ActualName string `json:"actualname"`
	Gender     string `json:"gender"`
}

// FilterJSON serializes the subset of the glossary whose Japanese names
// occur in chunk, for embedding into a translation prompt. Keeping the
// prompt glossary small matters for local models with short contexts.
func (g *Glossary) FilterJSON(chunk string) (string, error) {
	filtered := make(map[string]steeringEntry)
	for _, e := range g.entries {
		if strings.Contains(chunk, e.JapaneseName) {
			filtered[e.JapaneseName] = steeringEntry{ActualName: e.ActualName, Gender: e.Gender}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(filtered); err != nil {
		return "", fmt.Errorf("failed to serialize glossary subset: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ParseRaw extracts the fenced json blocks from raw glossary text produced
// by the extraction stage and merges them into a deduplicated entry list.
// Blocks that cannot be parsed (even after one repair attempt through fix)
// are skipped and reported as failures; a bad chunk never aborts the run.
func ParseRaw(raw, source string, fix jsonblock.FixFunc) ([]Entry, []jsonblock.Failure) {
	var (
		entries  []Entry
		failures []jsonblock.Failure
	)
	seen := make(map[string]bool)

	for i, block := range jsonblock.Extract(raw) {
		var parsed []Entry
		if err := jsonblock.UnmarshalWithRepair(block, &parsed, fix); err != nil {
			// Some models answer with a single object instead of an array
			var single Entry
			if err2 := json.Unmarshal([]byte(block), &single); err2 == nil && single.JapaneseName != "" {
				parsed = []Entry{single}
			} else {
				failures = append(failures, jsonblock.Failure{Source: source, Index: i, Block: block, Err: err})
				continue
			}
		}

		for _, e := range parsed {
			if e.JapaneseName == "" || seen[e.JapaneseName] {
				continue
			}
			seen[e.JapaneseName] = true
			entries = append(entries, e)
		}
	}

	return entries, failures
}

// Save writes entries as an indented UTF-8 JSON array without HTML escaping
func Save(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to serialize glossary: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write glossary file: %w", err)
	}
	return nil
}

// Load reads a glossary JSON file written by Save
func Load(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid glossary JSON in %s: %w", path, err)
	}

	return New(entries), nil
}
