package scenario

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var preBlock = regexp.MustCompile(`(?s)<PRE.*?>(.*?)</PRE>`)

// Decode converts raw scenario script bytes to UTF-8, detecting the source
// encoding. Engine scripts in the wild are usually Shift_JIS, sometimes
// UTF-8 with or without BOM.
func Decode(data []byte) (string, error) {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("failed to detect encoding: %w", err)
	}
	return DecodeAs(result.Charset, data)
}

// DecodeAs converts raw bytes from the named IANA charset to UTF-8
func DecodeAs(charset string, data []byte) (string, error) {
	switch strings.ToUpper(charset) {
	case "UTF-8", "US-ASCII", "ASCII", "":
		decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode %s content: %w", charset, err)
		}
		return string(decoded), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", fmt.Errorf("unsupported charset %q", charset)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s content: %w", charset, err)
	}
	return string(decoded), nil
}

// ExtractPre returns the contents of every <PRE>...</PRE> block
func ExtractPre(content string) []string {
	matches := preBlock.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// ClassifyBlock turns one <PRE> block into an element, classifying each
// line by the engine's conventions: [text...] labels, 【】 speaker names,
// <voice ...> tags, 「」 dialogue lines, anything else narration. Narration
// continues the previous text line unless that line closed its 」quote.
func ClassifyBlock(block string) Element {
	ele := Element{
		Names:     []*string{},
		VoiceTags: []*string{},
		Text:      []string{},
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "[text"):
			label := line
			ele.TextLabel = &label
		case strings.Contains(line, "「"):
			alignSlot(&ele.Names, len(ele.Text)+1)
			alignSlot(&ele.VoiceTags, len(ele.Text)+1)
			ele.Text = append(ele.Text, line)
		case strings.Contains(line, "【"):
			name := line
			ele.Names = append(ele.Names, &name)
		case strings.Contains(line, "<voice"):
			alignSlot(&ele.Names, len(ele.VoiceTags)+1)
			tag := line
			ele.VoiceTags = append(ele.VoiceTags, &tag)
		default:
			if len(ele.Text) == 0 {
				ele.Text = append(ele.Text, line)
			} else if strings.Contains(ele.Text[len(ele.Text)-1], "」") {
				alignSlot(&ele.Names, len(ele.Text)+1)
				alignSlot(&ele.VoiceTags, len(ele.Text)+1)
				ele.Text = append(ele.Text, line)
			} else {
				ele.Text[len(ele.Text)-1] += "\n" + line
			}
		}
	}

	return ele
}

// alignSlot appends one nil slot when the slice length is off the expected
// position. The engine format aligns names and voice tags positionally with
// text lines; gaps are explicit nulls.
func alignSlot(s *[]*string, n int) {
	if len(*s) != n {
		*s = append(*s, nil)
	}
}

// ExtractFile extracts the scenario content of a single script file
func ExtractFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	content, err := Decode(data)
	if err != nil {
		return nil, err
	}

	f := &File{Content: []Element{}}
	for _, block := range ExtractPre(content) {
		f.Content = append(f.Content, ClassifyBlock(block))
	}
	return f, nil
}

// ExtractFolder walks inputDir, extracts every script file and writes one
// JSON file per script into outputDir, mirroring base names with a .json
// extension. Files that fail to decode are skipped with an error returned
// through the callback-free summary error slice.
func ExtractFolder(inputDir, outputDir string) (processed int, errs []error, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	walkErr := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		f, err := ExtractFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		if len(f.Content) == 0 {
			return nil
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
		if err := WriteContentFile(filepath.Join(outputDir, base), f); err != nil {
			errs = append(errs, err)
			return nil
		}
		processed++
		return nil
	})
	if walkErr != nil {
		return processed, errs, fmt.Errorf("failed to walk input folder: %w", walkErr)
	}

	return processed, errs, nil
}
