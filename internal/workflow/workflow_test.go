package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Madsy420/LLMJapTranslator/internal/glossary"
	"github.com/Madsy420/LLMJapTranslator/internal/scenario"
	"github.com/Madsy420/LLMJapTranslator/internal/testutil"
)

func strPtr(s string) *string { return &s }

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		RawInput:         filepath.Join(dir, "input"),
		RawGlossary:      filepath.Join(dir, "raw_glossary.txt"),
		GlossaryJSON:     filepath.Join(dir, "glossary.json"),
		TranslatedOutput: filepath.Join(dir, "output"),
		SummaryFile:      filepath.Join(dir, "summary.txt"),
		ErrorLog:         filepath.Join(dir, "errors.txt"),
	}
}

func TestCreateRawGlossary(t *testing.T) {
	config := testConfig(t)
	testutil.CreateTestFile(t, config.SummaryFile, []byte("魔女の物語の要約"))

	provider := &testutil.MockProvider{
		Responses: []string{"```json\n[{\"japanesename\": \"魔女\", \"englishphonetic\": \"Majo\", \"actualname\": \"Witch\"}]\n```"},
	}
	chunker := &testutil.StaticChunker{Chunks: []string{"chunk-one", "chunk-two"}}

	wf := New(config, provider, chunker)
	if err := wf.CreateRawGlossary(context.Background()); err != nil {
		t.Fatalf("CreateRawGlossary failed: %v", err)
	}

	if provider.Calls() != 2 {
		t.Errorf("expected one model call per chunk, got %d", provider.Calls())
	}
	for _, prompt := range provider.UserPrompts {
		if !strings.Contains(prompt, "Extract all the people's names") {
			t.Errorf("prompt missing extraction instructions: %s", prompt)
		}
	}

	raw := testutil.ReadTestFile(t, config.RawGlossary)
	if strings.Count(raw, "```json") != 2 {
		t.Errorf("raw glossary should hold both responses:\n%s", raw)
	}
}

func TestCreateRawGlossaryEmptySummary(t *testing.T) {
	config := testConfig(t)
	testutil.CreateTestFile(t, config.SummaryFile, nil)

	provider := &testutil.MockProvider{Responses: []string{"unused"}}
	wf := New(config, provider, &testutil.StaticChunker{})

	if err := wf.CreateRawGlossary(context.Background()); err != nil {
		t.Fatalf("CreateRawGlossary failed on empty summary: %v", err)
	}
	if provider.Calls() != 0 {
		t.Errorf("no model calls expected for empty summary, got %d", provider.Calls())
	}

	// An empty raw glossary file is still produced
	if raw := testutil.ReadTestFile(t, config.RawGlossary); raw != "" {
		t.Errorf("expected empty raw glossary, got %q", raw)
	}
}

func TestCreateRawGlossaryMissingSummary(t *testing.T) {
	config := testConfig(t)
	wf := New(config, &testutil.MockProvider{}, &testutil.StaticChunker{})

	if err := wf.CreateRawGlossary(context.Background()); err == nil {
		t.Error("expected error for missing summary file")
	}
}

func TestCreateRawGlossaryModelError(t *testing.T) {
	config := testConfig(t)
	testutil.CreateTestFile(t, config.SummaryFile, []byte("要約"))

	provider := &testutil.MockProvider{Err: errors.New("connection refused")}
	wf := New(config, provider, &testutil.StaticChunker{Chunks: []string{"chunk"}})

	err := wf.CreateRawGlossary(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestCreateGlossaryJSON(t *testing.T) {
	config := testConfig(t)
	raw := "```json\n[{\"japanesename\": \"魔女\", \"englishphonetic\": \"Majo\", \"actualname\": \"Witch\"}]\n```\n\n" +
		"```json\nbroken block\n```\n"
	testutil.CreateTestFile(t, config.RawGlossary, []byte(raw))

	// The repair attempt also returns garbage, so the bad block is skipped
	provider := &testutil.MockProvider{Responses: []string{"still broken"}}
	wf := New(config, provider, nil)

	if err := wf.CreateGlossaryJSON(context.Background()); err != nil {
		t.Fatalf("CreateGlossaryJSON failed: %v", err)
	}

	g, err := glossary.Load(config.GlossaryJSON)
	if err != nil {
		t.Fatalf("failed to load produced glossary: %v", err)
	}
	want := []glossary.Entry{{JapaneseName: "魔女", EnglishPhonetic: "Majo", ActualName: "Witch"}}
	if !reflect.DeepEqual(g.Entries(), want) {
		t.Errorf("glossary = %+v, want %+v", g.Entries(), want)
	}

	// The skipped block lands in the error log
	log := testutil.ReadTestFile(t, config.ErrorLog)
	if !strings.Contains(log, "broken block") {
		t.Errorf("error log missing failed block:\n%s", log)
	}
}

func TestCreateGlossaryJSONIdempotent(t *testing.T) {
	config := testConfig(t)
	raw := "```json\n[{\"japanesename\": \"魔女\", \"englishphonetic\": \"Majo\", \"actualname\": \"Witch\"}]\n```"
	testutil.CreateTestFile(t, config.RawGlossary, []byte(raw))

	wf := New(config, nil, nil)
	if err := wf.CreateGlossaryJSON(context.Background()); err != nil {
		t.Fatalf("CreateGlossaryJSON failed: %v", err)
	}
	first := testutil.ReadTestFile(t, config.GlossaryJSON)

	if err := wf.CreateGlossaryJSON(context.Background()); err != nil {
		t.Fatalf("CreateGlossaryJSON failed on second run: %v", err)
	}
	second := testutil.ReadTestFile(t, config.GlossaryJSON)

	if first != second {
		t.Error("glossary JSON creation is not idempotent")
	}
}

func TestLoadGlossary(t *testing.T) {
	config := testConfig(t)
	entries := []glossary.Entry{{JapaneseName: "魔女", ActualName: "Witch"}}
	if err := glossary.Save(config.GlossaryJSON, entries); err != nil {
		t.Fatal(err)
	}

	wf := New(config, nil, nil)
	if err := wf.LoadGlossary(); err != nil {
		t.Fatalf("LoadGlossary failed: %v", err)
	}
	if wf.Glossary().Len() != 1 {
		t.Errorf("glossary len = %d, want 1", wf.Glossary().Len())
	}

	wf2 := New(Config{GlossaryJSON: filepath.Join(t.TempDir(), "nope.json")}, nil, nil)
	if err := wf2.LoadGlossary(); err == nil {
		t.Error("expected error for missing glossary file")
	}
}

func TestTranslateScenarioFolder(t *testing.T) {
	config := testConfig(t)

	input := &scenario.File{
		Content: []scenario.Element{
			{
				TextLabel: strPtr("[text001]"),
				Names:     []*string{strPtr("【アキラ】")},
				VoiceTags: []*string{strPtr(`<voice name="akira001">`)},
				Text:      []string{"「魔女が来る！」"},
			},
		},
	}
	os.MkdirAll(config.RawInput, 0755)
	if err := scenario.WriteContentFile(filepath.Join(config.RawInput, "chapter1.json"), input); err != nil {
		t.Fatal(err)
	}

	if err := glossary.Save(config.GlossaryJSON, []glossary.Entry{
		{JapaneseName: "魔女", ActualName: "Witch", Gender: "female"},
		{JapaneseName: "東京", ActualName: "Tokyo"},
	}); err != nil {
		t.Fatal(err)
	}

	provider := &testutil.MockProvider{
		Responses: []string{"```json\n{\"text\": [\"The Witch is coming!\"]}\n```"},
	}

	wf := New(config, provider, nil)
	if err := wf.LoadGlossary(); err != nil {
		t.Fatal(err)
	}
	if err := wf.TranslateScenarioFolder(context.Background()); err != nil {
		t.Fatalf("TranslateScenarioFolder failed: %v", err)
	}

	// Glossary steering: the prompt must carry the matching entry only
	prompt := provider.UserPrompts[0]
	if !strings.Contains(prompt, "Witch") {
		t.Errorf("prompt missing glossary entry for 魔女:\n%s", prompt)
	}
	if strings.Contains(prompt, "Tokyo") {
		t.Errorf("prompt contains unrelated glossary entry:\n%s", prompt)
	}

	out, err := scenario.ReadContentFile(filepath.Join(config.TranslatedOutput, "chapter1.json"))
	if err != nil {
		t.Fatalf("failed to read translated file: %v", err)
	}
	if len(out.Content) != 1 {
		t.Fatalf("expected 1 element, got %d", len(out.Content))
	}

	got := out.Content[0]
	if !reflect.DeepEqual(got.Text, []string{"The Witch is coming!"}) {
		t.Errorf("translated text = %q", got.Text)
	}
	// Structural metadata must survive untouched
	if got.TextLabel == nil || *got.TextLabel != "[text001]" {
		t.Errorf("text label not preserved: %v", got.TextLabel)
	}
	if len(got.Names) != 1 || got.Names[0] == nil || *got.Names[0] != "【アキラ】" {
		t.Errorf("name not preserved: %v", got.Names)
	}
	if len(got.VoiceTags) != 1 || got.VoiceTags[0] == nil || *got.VoiceTags[0] != `<voice name="akira001">` {
		t.Errorf("voice tag not preserved: %v", got.VoiceTags)
	}
}

func TestTranslateScenarioFolderBadCompletion(t *testing.T) {
	config := testConfig(t)

	input := &scenario.File{
		Content: []scenario.Element{
			{Names: []*string{}, VoiceTags: []*string{}, Text: []string{"「テスト」"}},
		},
	}
	os.MkdirAll(config.RawInput, 0755)
	if err := scenario.WriteContentFile(filepath.Join(config.RawInput, "bad.json"), input); err != nil {
		t.Fatal(err)
	}
	if err := glossary.Save(config.GlossaryJSON, nil); err != nil {
		t.Fatal(err)
	}

	// Completion has no fenced block; element is dropped, run continues
	provider := &testutil.MockProvider{Responses: []string{"no json here"}}

	wf := New(config, provider, nil)
	if err := wf.LoadGlossary(); err != nil {
		t.Fatal(err)
	}
	if err := wf.TranslateScenarioFolder(context.Background()); err != nil {
		t.Fatalf("TranslateScenarioFolder failed: %v", err)
	}

	out, err := scenario.ReadContentFile(filepath.Join(config.TranslatedOutput, "bad.json"))
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if len(out.Content) != 0 {
		t.Errorf("failed element should be dropped, got %d elements", len(out.Content))
	}
}

func TestTranslateScenarioFolderEmptyInput(t *testing.T) {
	config := testConfig(t)
	os.MkdirAll(config.RawInput, 0755)
	if err := glossary.Save(config.GlossaryJSON, nil); err != nil {
		t.Fatal(err)
	}

	wf := New(config, &testutil.MockProvider{}, nil)
	if err := wf.LoadGlossary(); err != nil {
		t.Fatal(err)
	}
	if err := wf.TranslateScenarioFolder(context.Background()); err != nil {
		t.Fatalf("empty input folder should not error: %v", err)
	}
}

func TestTranslateNovel(t *testing.T) {
	config := testConfig(t)
	testutil.CreateTestFile(t, config.RawInput, []byte("魔女の物語"))
	if err := glossary.Save(config.GlossaryJSON, []glossary.Entry{
		{JapaneseName: "魔女", ActualName: "Witch"},
	}); err != nil {
		t.Fatal(err)
	}

	provider := &testutil.MockProvider{
		Responses: []string{
			"```json\n{\"original\": \"魔女の物語\", \"translation\": \"The tale of the Witch\"}\n```",
		},
	}
	chunker := &testutil.StaticChunker{Chunks: []string{"魔女の物語"}}

	wf := New(config, provider, chunker)
	if err := wf.LoadGlossary(); err != nil {
		t.Fatal(err)
	}
	if err := wf.TranslateNovel(context.Background()); err != nil {
		t.Fatalf("TranslateNovel failed: %v", err)
	}

	if !strings.Contains(provider.UserPrompts[0], "Witch") {
		t.Error("novel prompt missing glossary steering")
	}

	out := testutil.ReadTestFile(t, config.TranslatedOutput)
	if !strings.Contains(out, "The tale of the Witch") {
		t.Errorf("translated output missing completion:\n%s", out)
	}
}

func TestTranslateNovelEmptyInput(t *testing.T) {
	config := testConfig(t)
	testutil.CreateTestFile(t, config.RawInput, nil)
	if err := glossary.Save(config.GlossaryJSON, nil); err != nil {
		t.Fatal(err)
	}

	provider := &testutil.MockProvider{}
	wf := New(config, provider, &testutil.StaticChunker{})
	if err := wf.LoadGlossary(); err != nil {
		t.Fatal(err)
	}
	if err := wf.TranslateNovel(context.Background()); err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if provider.Calls() != 0 {
		t.Errorf("no model calls expected, got %d", provider.Calls())
	}
	if out := testutil.ReadTestFile(t, config.TranslatedOutput); out != "" {
		t.Errorf("expected empty output file, got %q", out)
	}
}
