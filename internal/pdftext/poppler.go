package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/parsererror"
)

const pdftotextBinary = "pdftotext"

// PopplerExtractor runs `pdftotext -layout`, which keeps the column layout
// the grammars expect.
type PopplerExtractor struct {
	Binary string
	logger logging.Logger
}

// NewPopplerExtractor creates a PopplerExtractor for the pdftotext on PATH.
func NewPopplerExtractor(logger logging.Logger) *PopplerExtractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PopplerExtractor{Binary: pdftotextBinary, logger: logger}
}

// Available reports whether the binary can be found.
func (e *PopplerExtractor) Available() bool {
	_, err := exec.LookPath(e.Binary)
	return err == nil
}

// ExtractPages implements Extractor.
func (e *PopplerExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, "-layout", "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, &parsererror.ExtractionError{FilePath: path, Tool: e.Binary, Err: err}
	}

	pages := SplitPages(stdout.String())
	e.logger.Debug("Extracted pages with pdftotext",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(pages)))
	return pages, nil
}
