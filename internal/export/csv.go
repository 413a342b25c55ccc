package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fjacquet/bankstmt/internal/models"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes table with a header row of column names.
func (e *Exporter) WriteCSV(table models.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close file")
		}
	}()
	return e.EncodeCSV(table, file)
}

// EncodeCSV writes table as CSV to w.
func (e *Exporter) EncodeCSV(table models.Table, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.opts.Delimiter
	out := gocsv.NewSafeCSVWriter(csvWriter)

	if err := out.Write(table.Columns); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for r, row := range table.Rows {
		for i, c := range table.Columns {
			record[i] = e.textValue(row.Value(c))
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row %d: %w", r+1, err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
