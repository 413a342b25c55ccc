// Package pdftext turns statement files into ordered page texts.
package pdftext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/parsererror"
)

// Extractor produces the ordered page texts of a statement file.
type Extractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// PageSeparator separates pages in plain-text statement dumps, as written by pdftotext.
const PageSeparator = "\f"

// SplitPages splits text on form feeds. A trailing empty page is dropped.
func SplitPages(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	pages := strings.Split(text, PageSeparator)
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

// TextFileExtractor reads page dumps saved as plain text.
type TextFileExtractor struct{}

// ExtractPages implements Extractor.
func (TextFileExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &parsererror.ExtractionError{FilePath: path, Tool: "text", Err: err}
	}
	return SplitPages(string(data)), nil
}

// AutoExtractor picks an extractor by file extension. PDFs go to Poppler when
// it is installed, with the native reader as the fallback.
type AutoExtractor struct {
	Poppler Extractor
	Native  Extractor
	Text    Extractor
	logger  logging.Logger
}

// NewAutoExtractor wires the production extractors.
func NewAutoExtractor(logger logging.Logger) *AutoExtractor {
	if logger == nil {
		logger = logging.Nop()
	}
	var poppler Extractor
	if p := NewPopplerExtractor(logger); p.Available() {
		poppler = p
	}
	return &AutoExtractor{
		Poppler: poppler,
		Native:  NewNativeExtractor(logger),
		Text:    TextFileExtractor{},
		logger:  logger,
	}
}

// ExtractPages implements Extractor.
func (a *AutoExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return a.Text.ExtractPages(ctx, path)
	case ".pdf":
	default:
		return nil, &parsererror.ExtractionError{FilePath: path, Tool: "auto", Err: &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF or plain text",
			Msg:            "unsupported file extension " + filepath.Ext(path),
		}}
	}

	if a.Poppler != nil {
		pages, err := a.Poppler.ExtractPages(ctx, path)
		if err == nil && hasText(pages) {
			return pages, nil
		}
		a.logger.WithError(err).Debug("Poppler extraction unusable, trying native reader",
			logging.F(logging.FieldFile, path))
	}
	if a.Native == nil {
		return nil, &parsererror.ExtractionError{FilePath: path, Tool: "auto", Err: errors.New("no PDF extractor available")}
	}
	return a.Native.ExtractPages(ctx, path)
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// MockExtractor returns fixed pages, for tests.
type MockExtractor struct {
	Pages []string
	Err   error
	Calls []string
}

// ExtractPages implements Extractor.
func (m *MockExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	m.Calls = append(m.Calls, path)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}
