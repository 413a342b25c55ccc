// Package extractor applies a layout grammar to segmented blocks and produces
// raw transaction records.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/bankstmt/internal/currencyutils"
	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
)

// DefaultSnippet is the default maximum length, in runes, of block text kept
// in a parse failure.
const DefaultSnippet = 100

// ErrNoMatch is wrapped by every FailureError.
var ErrNoMatch = errors.New("block matches no grammar alternative")

// FailureError reports a block that no grammar alternative matched.
type FailureError struct {
	Block   int
	Page    int
	Snippet string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("block %d on page %d: %v: %q", e.Block, e.Page, ErrNoMatch, e.Snippet)
}

func (e *FailureError) Unwrap() error { return ErrNoMatch }

// Diagnostic converts the failure into a parse failure diagnostic.
func (e *FailureError) Diagnostic() models.Diagnostic {
	return models.Diagnostic{
		Kind:    models.DiagParseFailure,
		Page:    e.Page,
		Block:   e.Block,
		Text:    e.Snippet,
		Message: ErrNoMatch.Error(),
	}
}

// Extractor extracts raw records for one layout.
type Extractor struct {
	layout  *layout.Descriptor
	snippet int
	logger  logging.Logger
}

// New creates an Extractor. A non-positive snippet selects DefaultSnippet.
func New(l *layout.Descriptor, snippet int, logger logging.Logger) *Extractor {
	if snippet <= 0 {
		snippet = DefaultSnippet
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{layout: l, snippet: snippet, logger: logger}
}

// Extract tries each grammar alternative in order; the first structural match
// wins. It returns a *FailureError when none matches.
func (e *Extractor) Extract(b models.Block) (models.RawRecord, error) {
	shape := e.layout.Shape
	for _, alt := range e.layout.Grammar {
		input, ok := shape.Input(b, alt)
		if !ok {
			continue
		}
		values, ok := alt.Match(input)
		if !ok {
			continue
		}
		return e.record(b, alt, values, shape.Trailing(b, alt)), nil
	}
	return models.RawRecord{}, &FailureError{
		Block:   b.Index,
		Page:    b.Page,
		Snippet: models.Truncate(b.Text(), e.snippet),
	}
}

// ExtractAll extracts every block. Failed blocks are reported as diagnostics
// and skipped; they never stop the run.
func (e *Extractor) ExtractAll(blocks []models.Block) ([]models.RawRecord, []models.Diagnostic) {
	records := make([]models.RawRecord, 0, len(blocks))
	var diags []models.Diagnostic
	for _, b := range blocks {
		rec, err := e.Extract(b)
		if err != nil {
			var failure *FailureError
			if errors.As(err, &failure) {
				diags = append(diags, failure.Diagnostic())
			}
			e.logger.Warn("Block skipped",
				logging.F(logging.FieldLayout, string(e.layout.ID)),
				logging.F(logging.FieldPage, b.Page),
				logging.F(logging.FieldBlock, b.Index),
				logging.F(logging.FieldReason, err.Error()))
			continue
		}
		records = append(records, rec)
	}
	e.logger.Debug("Blocks extracted",
		logging.F(logging.FieldLayout, string(e.layout.ID)),
		logging.F(logging.FieldCount, len(records)))
	return records, diags
}

func (e *Extractor) record(b models.Block, alt *layout.Alternative, values map[string]string, trailing []string) models.RawRecord {
	appended := make(map[string][]string)
	for _, s := range alt.Slots {
		if s.AppendTo != "" && values[s.Name] != "" {
			appended[s.AppendTo] = append(appended[s.AppendTo], values[s.Name])
		}
	}
	if field := e.layout.Shape.AppendField(); field != "" {
		appended[field] = append(appended[field], trailing...)
	}

	rec := models.RawRecord{Block: b.Index, Page: b.Page, Pattern: alt.Name}
	for _, s := range alt.Slots {
		if s.AppendTo != "" {
			continue
		}
		f := models.RawField{Name: s.Name, Kind: s.Kind, Value: values[s.Name]}
		if extra := appended[s.Name]; len(extra) > 0 {
			f.Value = joinNonEmpty(append([]string{f.Value}, extra...))
		}
		if s.Marked {
			f.Value, f.Marker = currencyutils.SplitDirectionMarker(f.Value)
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
