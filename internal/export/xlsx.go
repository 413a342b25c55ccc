package export

import (
	"fmt"
	"unicode/utf8"

	"fjacquet/bankstmt/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// WriteXLSX writes table as a single sheet: a bold header row of column names,
// one row per transaction, columns sized to their widest cell.
func (e *Exporter) WriteXLSX(table models.Table, path string) error {
	f, err := e.buildWorkbook(table)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close workbook")
		}
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) buildWorkbook(table models.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := e.opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	widths := make([]int, len(table.Columns))
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error writing header row: %w", err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for i, c := range table.Columns {
			values[i] = e.cellValue(row.Value(c))
			if n := utf8.RuneCountInString(e.textValue(row.Value(c))); n > widths[i] {
				widths[i] = n
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error writing row %d: %w", r+1, err)
		}
	}

	if err := e.styleHeader(f, sheet, len(table.Columns)); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(w)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error sizing column %s: %w", name, err)
		}
	}
	return f, nil
}

func (e *Exporter) styleHeader(f *excelize.File, sheet string, columns int) error {
	if columns == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// cellValue keeps amounts numeric in the sheet; dates are written in the
// configured format.
func (e *Exporter) cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return val.InexactFloat64()
	case bool:
		return val
	default:
		return e.textValue(val)
	}
}

func columnWidth(runes int) float64 {
	w := runes + 2
	if w < minColumnWidth {
		w = minColumnWidth
	}
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	return float64(w)
}
