// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/bankstmt/internal/container"
	"fjacquet/bankstmt/internal/export"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/statement"
)

// ParseStatement extracts and parses one statement file. A statement whose
// layout cannot be detected is an error here: the CLI has nothing to write.
func ParseStatement(ctx context.Context, c *container.Container, inputFile, bank string) (*statement.Result, error) {
	if inputFile == "" {
		return nil, fmt.Errorf("input file must be specified")
	}
	result, err := c.GetParser().ParseFile(ctx, c.GetExtractor(), inputFile, bank)
	if err != nil {
		return nil, err
	}
	if !result.Detected() {
		return nil, fmt.Errorf("bank layout not detected in %s; use --bank to choose one", inputFile)
	}
	return result, nil
}

// OutputPath returns output, or the input path with the format's extension
// when output is empty.
func OutputPath(inputFile, output, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "." + format
}

// FormatFor picks the export format: an explicit flag wins, then the output
// file extension, then the configured default.
func FormatFor(flag, output, configured string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = export.FormatForPath(output)
	}
	if format == "" {
		format = configured
	}
	switch format {
	case export.FormatXLSX, export.FormatCSV:
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", format)
}

// ReportResult prints a short summary of a parse followed by its diagnostics.
func ReportResult(out io.Writer, result *statement.Result, log logging.Logger) {
	_, _ = fmt.Fprintf(out, "Layout: %s\n", result.Layout)
	_, _ = fmt.Fprintf(out, "Transactions: %d\n", len(result.Table.Rows))
	if len(result.Diagnostics) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "Diagnostics: %d\n", len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		_, _ = fmt.Fprintf(out, "  - %s\n", d)
		log.Debug("Parse diagnostic", logging.F("kind", string(d.Kind)), logging.F(logging.FieldBlock, d.Block))
	}
}
