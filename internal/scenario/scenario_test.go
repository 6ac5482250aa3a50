package scenario

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Madsy420/LLMJapTranslator/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestReadWriteContentFileRoundTrip(t *testing.T) {
	f := &File{
		Content: []Element{
			{
				TextLabel: strPtr("[text001]"),
				Names:     []*string{strPtr("【アキラ】"), nil},
				VoiceTags: []*string{strPtr(`<voice name="akira001">`), nil},
				Text:      []string{"「んなバカな！」", "地の文が続く。"},
			},
			{
				TextLabel: nil,
				Names:     []*string{},
				VoiceTags: []*string{},
				Text:      []string{},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "chapter1.json")
	if err := WriteContentFile(path, f); err != nil {
		t.Fatalf("WriteContentFile failed: %v", err)
	}

	got, err := ReadContentFile(path)
	if err != nil {
		t.Fatalf("ReadContentFile failed: %v", err)
	}

	if !reflect.DeepEqual(got, f) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, f)
	}

	// Voice tags contain angle brackets that must not be HTML-escaped
	raw := testutil.ReadTestFile(t, path)
	if strings.Contains(raw, `\u003c`) {
		t.Error("scenario file contains HTML-escaped angle brackets")
	}
	if !strings.Contains(raw, `<voice name=`) {
		t.Error("voice tag lost its angle brackets")
	}
	if !strings.Contains(raw, "「んなバカな！」") {
		t.Error("scenario file does not contain raw Japanese text")
	}
}

func TestReadContentFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadContentFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	testutil.CreateTestFile(t, bad, []byte("{not json"))
	if _, err := ReadContentFile(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteContentFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := WriteContentFile(path, &File{}); err != nil {
		t.Fatalf("WriteContentFile failed: %v", err)
	}

	got, err := ReadContentFile(path)
	if err != nil {
		t.Fatalf("ReadContentFile failed: %v", err)
	}
	if len(got.Content) != 0 {
		t.Errorf("expected empty content, got %d elements", len(got.Content))
	}
}
