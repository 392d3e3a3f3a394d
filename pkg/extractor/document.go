package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxExcerptRunes bounds the content excerpt kept per document so a large
// file never bloats the snapshot.
const maxExcerptRunes = 2000

// binaryDocExtensions are document formats we do not parse in-process.
var binaryDocExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".rtf":  true,
}

// DocumentExtractor extracts a title and text excerpt from plain-text
// document files. Binary document formats get a descriptive record
// instead of parsed text.
type DocumentExtractor struct {
	maxRunes int
}

// NewDocumentExtractor creates a document extractor with the default
// excerpt bound.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{maxRunes: maxExcerptRunes}
}

// Extract reads the file and returns its title and a bounded excerpt.
func (e *DocumentExtractor) Extract(ctx context.Context, path string) (*Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	if binaryDocExtensions[ext] {
		return &Raw{
			Title:   name,
			Content: "Document file: " + name,
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	text := string(data)
	title := firstLineTitle(text)
	if title == "" {
		title = name
	}

	return &Raw{
		Title:   title,
		Content: truncateRunes(text, e.maxRunes),
	}, nil
}

// firstLineTitle returns the first non-empty line, with markdown heading
// markers stripped.
func firstLineTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return truncateRunes(line, 120)
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(runes[:max]))
}
