// Package statement runs the full parse of a bank statement: layout
// detection, segmentation, field extraction, table assembly and
// categorization.
package statement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/bankstmt/internal/assembler"
	"fjacquet/bankstmt/internal/categorizer"
	"fjacquet/bankstmt/internal/detector"
	"fjacquet/bankstmt/internal/extractor"
	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/parsererror"
	"fjacquet/bankstmt/internal/pdftext"
	"fjacquet/bankstmt/internal/reconcile"
	"fjacquet/bankstmt/internal/segmenter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options tunes a Parser. Zero counts and a zero threshold select the package
// defaults; a zero tolerance asks for exact reconciliation, so start from
// DefaultOptions.
type Options struct {
	BlankLineStop   int
	Lookahead       int
	Tolerance       decimal.Decimal
	Snippet         int
	IncomeThreshold decimal.Decimal
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BlankLineStop:   segmenter.DefaultBlankLineStop,
		Lookahead:       detector.DefaultLookahead,
		Tolerance:       reconcile.DefaultTolerance,
		Snippet:         extractor.DefaultSnippet,
		IncomeThreshold: categorizer.DefaultIncomeThreshold,
	}
}

// Result is the outcome of a parse. An empty Layout means no layout was
// detected; a detected layout with no rows means the statement holds no
// transactions.
type Result struct {
	RunID       string
	Layout      layout.ID
	Method      detector.Method
	HeaderPage  int
	Table       models.Table
	Diagnostics []models.Diagnostic
}

// Detected reports whether a layout was found or given.
func (r *Result) Detected() bool {
	return r.Layout != ""
}

// Parser holds only read-only state and is safe for concurrent use.
type Parser struct {
	registry   *layout.Registry
	detector   *detector.Detector
	classifier categorizer.Classifier
	opts       Options
	logger     logging.Logger
}

// New creates a Parser. A nil registry selects the built-in layouts and a nil
// classifier leaves every row Uncategorized before the income fallback.
func New(registry *layout.Registry, classifier categorizer.Classifier, opts Options, logger logging.Logger) *Parser {
	if registry == nil {
		registry = layout.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.IncomeThreshold.IsZero() {
		opts.IncomeThreshold = categorizer.DefaultIncomeThreshold
	}
	if opts.Tolerance.IsNegative() {
		opts.Tolerance = reconcile.DefaultTolerance
	}
	return &Parser{
		registry:   registry,
		detector:   detector.New(registry, opts.Lookahead, logger),
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}
}

// Registry returns the layouts the parser knows.
func (p *Parser) Registry() *layout.Registry {
	return p.registry
}

// Parse extracts the transactions of a statement from its page texts. A
// non-empty hint names the layout and skips detection. Only unreadable input
// and an unknown hint are errors; everything else degrades into diagnostics.
func (p *Parser) Parse(ctx context.Context, pages []string, hint string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	log := p.logger.WithField(logging.FieldRunID, result.RunID)

	if err := checkReadable(pages); err != nil {
		return nil, err
	}

	l, err := p.resolveLayout(pages, hint, result, log)
	if err != nil {
		return nil, err
	}
	if l == nil {
		log.Warn("No layout detected", logging.F(logging.FieldCount, len(pages)))
		return result, nil
	}
	log = log.WithField(logging.FieldLayout, string(l.ID))

	blocks, headerPage := segmenter.New(l, p.opts.BlankLineStop, log).SegmentPages(pages)
	result.HeaderPage = headerPage
	if headerPage == 0 {
		result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
			Kind:    models.DiagHeaderNotFound,
			Block:   -1,
			Row:     -1,
			Message: fmt.Sprintf("no %s table header on page 1 or 2", l.ID),
		})
		log.Warn("Table header not found")
	}

	records, diags := extractor.New(l, p.opts.Snippet, log).ExtractAll(blocks)
	result.Diagnostics = append(result.Diagnostics, diags...)

	table, diags := assembler.New(l, p.opts.Tolerance, log).Assemble(records)
	result.Diagnostics = append(result.Diagnostics, diags...)

	p.categorize(ctx, &table, log)
	result.Table = table

	log.Info("Statement parsed",
		logging.F(logging.FieldCount, len(table.Rows)),
		logging.F("blocks", len(blocks)),
		logging.F("diagnostics", len(result.Diagnostics)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// ParseFile extracts the pages of path and parses them. Extraction failures
// are reported as unreadable input.
func (p *Parser) ParseFile(ctx context.Context, ext pdftext.Extractor, path, hint string) (*Result, error) {
	pages, err := ext.ExtractPages(ctx, path)
	if err != nil {
		return nil, &parsererror.InputUnreadableError{Source: path, Reason: "text extraction failed", Err: err}
	}
	result, err := p.Parse(ctx, pages, hint)
	if err != nil {
		var unreadable *parsererror.InputUnreadableError
		if errors.As(err, &unreadable) {
			unreadable.Source = path
		}
		return nil, err
	}
	return result, nil
}

func checkReadable(pages []string) error {
	if len(pages) == 0 {
		return &parsererror.InputUnreadableError{Reason: "no pages", Err: parsererror.ErrNoText}
	}
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			return nil
		}
	}
	return &parsererror.InputUnreadableError{Reason: "all pages are blank", Err: parsererror.ErrNoText}
}

func (p *Parser) resolveLayout(pages []string, hint string, result *Result, log logging.Logger) (*layout.Descriptor, error) {
	if strings.TrimSpace(hint) != "" {
		l, err := p.registry.Lookup(hint)
		if err != nil {
			return nil, err
		}
		result.Layout = l.ID
		log.Debug("Layout given by hint", logging.F(logging.FieldLayout, string(l.ID)))
		return l, nil
	}

	match, ok := p.detector.DetectPages(pages)
	if !ok {
		return nil, nil
	}
	result.Layout = match.Layout.ID
	result.Method = match.Method
	return match.Layout, nil
}

// categorize attaches a category to every row, then applies the income
// fallback, and adds the category column.
func (p *Parser) categorize(ctx context.Context, table *models.Table, log logging.Logger) {
	fallbacks := 0
	for i := range table.Rows {
		row := &table.Rows[i]
		row.Category = models.CategoryUncategorized
		if p.classifier != nil {
			if c := p.classifier.Classify(ctx, row.Description); c != "" {
				row.Category = c
			}
		}
		if categorizer.ApplyIncomeFallback(row, p.opts.IncomeThreshold) {
			fallbacks++
			log.Debug("Large credit classified as income",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldCategory, row.Category))
		}
	}
	if fallbacks > 0 {
		log.Info("Income fallback applied", logging.F(logging.FieldCount, fallbacks))
	}
	if !table.HasColumn(models.ColCategory) {
		table.Columns = models.OrderColumns(append(table.Columns, models.ColCategory))
	}
}
