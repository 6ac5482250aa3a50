package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Madsy420/LLMJapTranslator/internal/glossary"
	"github.com/Madsy420/LLMJapTranslator/internal/jsonblock"
	"github.com/Madsy420/LLMJapTranslator/internal/llm"
	"github.com/Madsy420/LLMJapTranslator/internal/scenario"
)

// Token budgets per model call. Glossary extraction uses smaller chunks so
// the model has headroom for the JSON answer.
const (
	GlossaryChunkTokens  = 400
	TranslateChunkTokens = 500
)

// Config holds the file locations for one translation project. All paths
// are explicit; there is no process-wide state.
type Config struct {
	// RawInput is the scenario JSON folder, or the novel text file
	RawInput string

	// RawGlossary is the raw glossary text file written by the extraction stage
	RawGlossary string

	// GlossaryJSON is the structured glossary file
	GlossaryJSON string

	// TranslatedOutput is the output folder (scenario) or file (novel)
	TranslatedOutput string

	// SummaryFile is the story summary fed to glossary extraction
	SummaryFile string

	// ErrorLog collects JSON blocks that could not be parsed
	ErrorLog string
}

// Chunker splits text into model-sized pieces
type Chunker interface {
	Chunk(text string, tokensPerChunk int) ([]string, error)
}

// Workflow drives the four translation stages. Each stage is run
// independently by the operator and depends only on the file artifacts of
// the previous one.
type Workflow struct {
	config   Config
	provider llm.Provider
	chunker  Chunker
	glossary *glossary.Glossary
}

// New creates a workflow over the given provider and chunker
func New(config Config, provider llm.Provider, chunker Chunker) *Workflow {
	return &Workflow{
		config:   config,
		provider: provider,
		chunker:  chunker,
		glossary: glossary.New(nil),
	}
}

// CreateRawGlossary chunks the summary file and asks the model for name and
// term candidates, appending each raw completion to the raw glossary file.
// The file is written even when the summary is empty.
func (w *Workflow) CreateRawGlossary(ctx context.Context) error {
	summary, err := os.ReadFile(w.config.SummaryFile)
	if err != nil {
		return fmt.Errorf("failed to read summary file: %w", err)
	}
	chunks, err := w.chunker.Chunk(string(summary), GlossaryChunkTokens)
	if err != nil {
		return err
	}

	out, err := os.Create(w.config.RawGlossary)
	if err != nil {
		return fmt.Errorf("failed to create raw glossary file: %w", err)
	}
	defer out.Close()

	for i, chunk := range chunks {
		fmt.Printf("Extracting names from chunk %d/%d...\n", i+1, len(chunks))

		response, err := w.provider.Chat(ctx, llm.SystemPrompt, llm.GlossaryCreationPrompt(chunk))
		if err != nil {
			return fmt.Errorf("glossary extraction failed on chunk %d: %w", i+1, err)
		}

		if _, err := out.WriteString(response + "\n\n"); err != nil {
			return fmt.Errorf("failed to write raw glossary: %w", err)
		}
	}

	fmt.Printf("Glossary creation complete, check %s\n", w.config.RawGlossary)
	return nil
}

// CreateGlossaryJSON parses the raw glossary text into structured entries
// and writes the glossary JSON file. Malformed blocks are repaired once via
// the model, then skipped; skipped blocks land in the error log file.
func (w *Workflow) CreateGlossaryJSON(ctx context.Context) error {
	raw, err := os.ReadFile(w.config.RawGlossary)
	if err != nil {
		return fmt.Errorf("failed to read raw glossary: %w", err)
	}

	entries, failures := glossary.ParseRaw(string(raw), w.config.RawGlossary, w.fixJSON(ctx))

	if len(failures) > 0 {
		if err := w.writeFailureLog(failures); err != nil {
			zap.S().Warnf("failed to write error log: %v", err)
		}
		fmt.Printf("Skipped %d unparseable block(s), see %s\n", len(failures), w.config.ErrorLog)
	}

	if err := glossary.Save(w.config.GlossaryJSON, entries); err != nil {
		return err
	}

	fmt.Printf("Wrote %d glossary entries to %s\n", len(entries), w.config.GlossaryJSON)
	return nil
}

// LoadGlossary reads the glossary JSON file into memory for translation
func (w *Workflow) LoadGlossary() error {
	g, err := glossary.Load(w.config.GlossaryJSON)
	if err != nil {
		return err
	}
	w.glossary = g
	return nil
}

// Glossary returns the loaded glossary
func (w *Workflow) Glossary() *glossary.Glossary {
	return w.glossary
}

// translatedText is the JSON shape exchanged with the model for scenario
// elements: only the text lines, nothing else.
type translatedText struct {
	Text []string `json:"text"`
}

// TranslateScenarioFolder walks the scenario JSON input folder, translates
// the text lines of every content element with a glossary-steered prompt,
// and writes mirrored output files. Elements that fail stay out of the
// output; the run continues and ends with a summary block.
func (w *Workflow) TranslateScenarioFolder(ctx context.Context) error {
	if err := os.MkdirAll(w.config.TranslatedOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		fileCount    int
		elementCount int
		errorCount   int
		failures     []jsonblock.Failure
	)

	walkErr := filepath.WalkDir(w.config.RawInput, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fmt.Printf("\nProcessing file: %s\n", path)

		f, err := scenario.ReadContentFile(path)
		if err != nil {
			zap.S().Warnf("skipping %s: %v", path, err)
			errorCount++
			return nil
		}

		translated := &scenario.File{Content: []scenario.Element{}}
		for i, element := range f.Content {
			fmt.Printf("  Translating element %d/%d...\n", i+1, len(f.Content))

			out, err := w.translateElement(ctx, element)
			if err != nil {
				zap.S().Warnf("element %d of %s failed: %v", i, path, err)
				failures = append(failures, jsonblock.Failure{Source: filepath.Base(path), Index: i, Err: err})
				errorCount++
				continue
			}
			translated.Content = append(translated.Content, *out)
			elementCount++
		}

		outPath := filepath.Join(w.config.TranslatedOutput, filepath.Base(path))
		if err := scenario.WriteContentFile(outPath, translated); err != nil {
			return err
		}
		fileCount++
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("failed to walk input folder: %w", walkErr)
	}

	if len(failures) > 0 {
		if err := w.writeFailureLog(failures); err != nil {
			zap.S().Warnf("failed to write error log: %v", err)
		}
	}

	fmt.Printf("\n=== Translation Summary ===\n")
	fmt.Printf("Files written: %d\n", fileCount)
	fmt.Printf("Elements translated: %d\n", elementCount)
	if errorCount > 0 {
		fmt.Printf("Errors: %d\n", errorCount)
	}
	fmt.Printf("===========================\n")

	return nil
}

// translateElement sends the text lines of one element to the model and
// reattaches the untranslatable metadata to the parsed answer.
func (w *Workflow) translateElement(ctx context.Context, element scenario.Element) (*scenario.Element, error) {
	chunk, err := marshalNoEscape(translatedText{Text: element.Text})
	if err != nil {
		return nil, err
	}

	glossaryJSON, err := w.glossary.FilterJSON(chunk)
	if err != nil {
		return nil, err
	}

	response, err := w.provider.Chat(ctx, llm.SystemPrompt,
		llm.TranslationPrompt(glossaryJSON, llm.ScenarioInstructions, chunk))
	if err != nil {
		return nil, err
	}

	block, err := jsonblock.ExtractFirst(response)
	if err != nil {
		return nil, err
	}

	var parsed translatedText
	if err := jsonblock.UnmarshalWithRepair(block, &parsed, w.fixJSON(ctx)); err != nil {
		return nil, err
	}

	return &scenario.Element{
		TextLabel: element.TextLabel,
		Names:     element.Names,
		VoiceTags: element.VoiceTags,
		Text:      parsed.Text,
	}, nil
}

// TranslateNovel chunks a plain-text novel file and appends the raw model
// completions to the output file, one chunk at a time.
func (w *Workflow) TranslateNovel(ctx context.Context) error {
	input, err := os.ReadFile(w.config.RawInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	chunks, err := w.chunker.Chunk(string(input), TranslateChunkTokens)
	if err != nil {
		return err
	}

	out, err := os.Create(w.config.TranslatedOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	for i, chunk := range chunks {
		fmt.Printf("Translating chunk %d/%d...\n", i+1, len(chunks))

		glossaryJSON, err := w.glossary.FilterJSON(chunk)
		if err != nil {
			return err
		}

		response, err := w.provider.Chat(ctx, llm.SystemPrompt,
			llm.TranslationPrompt(glossaryJSON, llm.NovelInstructions, chunk))
		if err != nil {
			return fmt.Errorf("translation failed on chunk %d: %w", i+1, err)
		}

		if _, err := out.WriteString(response + "\n\n"); err != nil {
			return fmt.Errorf("failed to write translation: %w", err)
		}
	}

	fmt.Printf("Raw translation complete, check %s\n", w.config.TranslatedOutput)
	return nil
}

// fixJSON returns the model-backed JSON repair callback, or nil when no
// provider is configured.
func (w *Workflow) fixJSON(ctx context.Context) jsonblock.FixFunc {
	if w.provider == nil {
		return nil
	}
	return func(badJSON string, parseErr error) (string, error) {
		fmt.Printf("  JSON parse failed, attempting model-assisted fix...\n")
		return w.provider.Chat(ctx, llm.SystemPrompt, llm.FixJSONPrompt(badJSON, parseErr))
	}
}

func (w *Workflow) writeFailureLog(failures []jsonblock.Failure) error {
	if w.config.ErrorLog == "" {
		return nil
	}
	var sb strings.Builder
	for _, f := range failures {
		sb.WriteString(f.String())
	}
	return os.WriteFile(w.config.ErrorLog, []byte(sb.String()), 0644)
}

func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
