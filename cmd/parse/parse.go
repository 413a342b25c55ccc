// Package parse handles the conversion of a single statement
package parse

import (
	"context"
	"fmt"
	"io"

	"fjacquet/bankstmt/cmd/common"
	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/container"
	"fjacquet/bankstmt/internal/export"

	"github.com/spf13/cobra"
)

// Format overrides the export format
var Format string

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert a bank statement to XLSX or CSV",
	Long: `Convert a bank statement PDF (or a .txt page dump) into a categorized table.

Example:
  bankstmt parse -i statement.pdf -o statement.xlsx
  bankstmt parse -i statement.pdf --bank HDFC --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(cmd.Context(), c, cmd.OutOrStdout(), root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Bank, Format)
	},
}

func init() {
	Cmd.Flags().StringVarP(&Format, "format", "f", "", "Output format: xlsx or csv (default from output extension or config)")
}

func run(ctx context.Context, c *container.Container, out io.Writer, input, output, bank, formatFlag string) error {
	log := c.GetLogger()

	opts := c.GetExporter().Options()
	format, err := common.FormatFor(formatFlag, output, opts.Format)
	if err != nil {
		return err
	}
	opts.Format = format
	output = common.OutputPath(input, output, format)

	result, err := common.ParseStatement(ctx, c, input, bank)
	if err != nil {
		return err
	}
	if err := export.New(opts, log).Write(result.Table, output); err != nil {
		return fmt.Errorf("error exporting to %s: %w", output, err)
	}

	common.ReportResult(out, result, log)
	_, _ = fmt.Fprintf(out, "Output: %s\n", output)
	return nil
}
