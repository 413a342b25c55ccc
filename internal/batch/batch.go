// Package batch converts every statement in a directory.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/bankstmt/internal/export"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/pdftext"
	"fjacquet/bankstmt/internal/statement"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// RowsDateRange spans the dated rows of a table; rows without a date are ignored.
func RowsDateRange(rows []models.Row) DateRange {
	var dr DateRange
	for _, r := range rows {
		if r.Date.IsZero() {
			continue
		}
		dr = dr.Merge(DateRange{Start: r.Date, End: r.Date})
	}
	return dr
}

// FileResult is the outcome of one statement.
type FileResult struct {
	File        string
	Output      string
	Layout      string
	Rows        int
	Diagnostics int
	Duplicates  int
	DateRange   DateRange
	Err         error
}

// Summary collects the results of a batch run in file order.
type Summary struct {
	Results []FileResult
}

// Succeeded counts files that were converted.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil && r.Output != "" {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error.
func (s Summary) Failed() []FileResult {
	var failed []FileResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Processor converts statement files one after the other.
type Processor struct {
	parser    *statement.Parser
	extractor pdftext.Extractor
	exporter  *export.Exporter
	logger    logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(parser *statement.Parser, extractor pdftext.Extractor, exporter *export.Exporter, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Processor{parser: parser, extractor: extractor, exporter: exporter, logger: logger}
}

// FindStatements lists the .pdf and .txt files directly inside dir, sorted by name.
func FindStatements(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run converts every statement in inputDir into outputDir. A file that fails
// is recorded in the summary and never stops the batch; only an unreadable
// input directory, an unusable output directory or a cancelled context are
// errors.
func (p *Processor) Run(ctx context.Context, inputDir, outputDir, hint string) (Summary, error) {
	var summary Summary

	files, err := FindStatements(inputDir)
	if err != nil {
		return summary, err
	}
	if err := os.MkdirAll(outputDir, models.PermissionDirectory); err != nil {
		return summary, fmt.Errorf("error creating output directory: %w", err)
	}

	p.logger.Info("Starting batch conversion",
		logging.F(logging.FieldInputFile, inputDir),
		logging.F(logging.FieldOutputFile, outputDir),
		logging.F(logging.FieldCount, len(files)))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := p.convert(ctx, file, outputDir, hint)
		summary.Results = append(summary.Results, res)
	}

	p.logger.Info("Batch conversion finished",
		logging.F("succeeded", summary.Succeeded()),
		logging.F("failed", len(summary.Failed())),
		logging.F(logging.FieldCount, len(files)))
	return summary, nil
}

func (p *Processor) convert(ctx context.Context, file, outputDir, hint string) FileResult {
	res := FileResult{File: file}
	log := p.logger.WithField(logging.FieldInputFile, filepath.Base(file))

	result, err := p.parser.ParseFile(ctx, p.extractor, file, hint)
	if err != nil {
		log.WithError(err).Error("Failed to parse statement")
		res.Err = err
		return res
	}
	if !result.Detected() {
		log.Warn("Skipping statement with unknown layout")
		return res
	}

	res.Layout = string(result.Layout)
	res.Rows = len(result.Table.Rows)
	res.Diagnostics = len(result.Diagnostics)
	res.DateRange = RowsDateRange(result.Table.Rows)
	res.Duplicates = p.detectAndLogDuplicates(result.Table.Rows, log)

	res.Output = filepath.Join(outputDir, OutputFilename(file, res.Layout, res.DateRange, p.exporter.Options().Format))
	if err := p.exporter.Write(result.Table, res.Output); err != nil {
		log.WithError(err).Error("Failed to export statement")
		res.Err = err
		res.Output = ""
		return res
	}

	log.Info("Statement converted",
		logging.F(logging.FieldLayout, res.Layout),
		logging.F(logging.FieldCount, res.Rows),
		logging.F("diagnostics", res.Diagnostics),
		logging.F(logging.FieldOutputFile, res.Output))
	return res
}

// OutputFilename names the export of input: {base}_{layout}[_{start}_{end}].{format}
func OutputFilename(input, layoutID string, dateRange DateRange, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := base + "_" + strings.ToLower(layoutID)
	if r := dateRange.String(); r != "" {
		name += "_" + r
	}
	return name + "." + format
}

// detectAndLogDuplicates warns about rows sharing date, amount and description.
// Duplicates are kept.
func (p *Processor) detectAndLogDuplicates(rows []models.Row, log logging.Logger) int {
	duplicateCount := 0
	for i := 0; i < len(rows)-1; i++ {
		for j := i + 1; j < len(rows); j++ {
			if arePotentialDuplicates(rows[i], rows[j]) {
				duplicateCount++
				log.Warn("Potential duplicate transaction",
					logging.F(logging.FieldRow, j),
					logging.F("date", rows[i].Date.Format("2006-01-02")),
					logging.F("amount", rows[i].Amount.String()))
				break
			}
		}
	}
	return duplicateCount
}

func arePotentialDuplicates(a, b models.Row) bool {
	if !a.Date.Equal(b.Date) || !a.Amount.Equal(b.Amount) || a.Direction != b.Direction {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Description), strings.TrimSpace(b.Description))
}
