// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/batch"
	"fjacquet/bankstmt/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Convert every .pdf and .txt statement of an input directory into the output directory.

A statement that fails is reported and skipped; the rest of the batch continues.

Example:
  bankstmt batch -i statements/ -o converted/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(cmd.Context(), c, cmd.OutOrStdout(), root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Bank)
	},
}

func run(ctx context.Context, c *container.Container, out io.Writer, inputDir, outputDir, bank string) error {
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	p := batch.NewProcessor(c.GetParser(), c.GetExtractor(), c.GetExporter(), c.GetLogger())
	summary, err := p.Run(ctx, inputDir, outputDir, bank)
	if err != nil {
		return err
	}

	for _, r := range summary.Results {
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(out, "FAIL  %s: %v\n", r.File, r.Err)
		case r.Output == "":
			_, _ = fmt.Fprintf(out, "SKIP  %s: layout not detected\n", r.File)
		default:
			_, _ = fmt.Fprintf(out, "OK    %s -> %s (%s, %d rows, %d diagnostics)\n",
				r.File, r.Output, r.Layout, r.Rows, r.Diagnostics)
		}
	}
	_, _ = fmt.Fprintf(out, "%d of %d statements converted\n", summary.Succeeded(), len(summary.Results))
	return nil
}
