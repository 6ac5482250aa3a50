// Package jsonblock extracts fenced ```json blocks from model completions.
// Local models are unreliable about emitting bare JSON, so every stage that
// expects structured output goes through this package.
package jsonblock

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// Extract returns the contents of all fenced ```json blocks, trimmed
func Extract(text string) []string {
	matches := fencedJSON.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}

// ExtractFirst returns the first fenced block, or an error when the
// completion contains none.
func ExtractFirst(text string) (string, error) {
	blocks := Extract(text)
	if len(blocks) == 0 {
		return "", fmt.Errorf("no fenced json block in completion")
	}
	return blocks[0], nil
}

// FixFunc asks an external helper (in practice, the model itself) to repair
// a JSON string that failed to parse. The returned string is the raw
// completion; any fenced block inside it is extracted again.
type FixFunc func(badJSON string, parseErr error) (string, error)

// UnmarshalWithRepair parses block into v. On failure it makes exactly one
// repair attempt through fix, matching the original tool's behavior: no
// repair loop, and a second failure is final.
func UnmarshalWithRepair(block string, v any, fix FixFunc) error {
	firstErr := json.Unmarshal([]byte(block), v)
	if firstErr == nil {
		return nil
	}
	if fix == nil {
		return firstErr
	}

	fixed, err := fix(block, firstErr)
	if err != nil {
		return fmt.Errorf("json parse failed (%v) and repair call failed: %w", firstErr, err)
	}

	// The repair completion usually wraps the corrected JSON in a fence
	// again; fall back to the raw completion when it does not.
	repaired, err := ExtractFirst(fixed)
	if err != nil {
		repaired = strings.TrimSpace(fixed)
	}

	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("json parse failed after repair: %w", err)
	}
	return nil
}

// Failure records one block that could not be parsed, for the error log file
type Failure struct {
	Source string
	Index  int
	Block  string
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("unable to load json string at index %d from %s.\nThe json string is\n\n%s\n\nand the error received is\n\n%v\n\n",
		f.Index, f.Source, f.Block, f.Err)
}
