// Package export serializes an assembled table to XLSX or CSV.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"

	"github.com/shopspring/decimal"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Default options.
const (
	DefaultSheetName  = "Transactions"
	DefaultDateFormat = "2006-01-02"
	DefaultDelimiter  = ','
)

// Options controls how a table is written.
type Options struct {
	Format     string
	SheetName  string
	DateFormat string
	Delimiter  rune
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatXLSX
	}
	if strings.TrimSpace(o.SheetName) == "" {
		o.SheetName = DefaultSheetName
	}
	if o.DateFormat == "" {
		o.DateFormat = DefaultDateFormat
	}
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	return o
}

// Exporter writes tables to files.
type Exporter struct {
	opts   Options
	logger logging.Logger
}

// New creates an Exporter. Zero option fields take their defaults.
func New(opts Options, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective options.
func (e *Exporter) Options() Options {
	return e.opts
}

// FormatForPath returns the format implied by a file extension, or "" when
// the extension is not a known export format.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV
	}
	return ""
}

// Write serializes table to path in the configured format.
func (e *Exporter) Write(table models.Table, path string) error {
	start := time.Now()
	var err error
	switch e.opts.Format {
	case FormatXLSX:
		err = e.WriteXLSX(table, path)
	case FormatCSV:
		err = e.WriteCSV(table, path)
	default:
		return fmt.Errorf("unsupported export format: %s", e.opts.Format)
	}
	if err != nil {
		return err
	}

	e.logger.Info("Table exported",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldFormat, e.opts.Format),
		logging.F(logging.FieldCount, len(table.Rows)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}

// textValue renders a cell as text.
func (e *Exporter) textValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(e.opts.DateFormat)
	case decimal.Decimal:
		return val.StringFixed(2)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
