package pdftext

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor reads PDFs in-process with github.com/ledongthuc/pdf. Rows
// come out with single spaces between words, so column gaps are lost; the
// grammars only rely on whitespace separation.
type NativeExtractor struct {
	logger logging.Logger
}

// NewNativeExtractor creates a NativeExtractor.
func NewNativeExtractor(logger logging.Logger) *NativeExtractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &NativeExtractor{logger: logger}
}

// ExtractPages implements Extractor. Pages that fail row extraction fall back
// to plain text; pages that yield nothing stay in place as empty strings.
func (e *NativeExtractor) ExtractPages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &parsererror.ExtractionError{FilePath: path, Tool: "ledongthuc/pdf", Err: fmt.Errorf("reader panicked: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &parsererror.ExtractionError{FilePath: path, Tool: "ledongthuc/pdf", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close PDF", logging.F(logging.FieldFile, path))
		}
	}()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, e.pageText(page, i))
	}

	e.logger.Debug("Extracted pages with native reader",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(pages)))
	return pages, nil
}

func (e *NativeExtractor) pageText(page pdf.Page, number int) string {
	rows, err := page.GetTextByRow()
	if err == nil {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.WithError(err).Warn("Page has no extractable text", logging.F(logging.FieldPage, number))
		return ""
	}
	return text
}
