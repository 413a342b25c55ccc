// Package detect reports which bank layout a statement uses
package detect

import (
	"context"
	"fmt"
	"io"

	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/container"
	"fjacquet/bankstmt/internal/detector"

	"github.com/spf13/cobra"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the bank layout of a statement",
	Long: `Detect the bank layout of a statement by bank name, then by table header.

Example:
  bankstmt detect -i statement.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(cmd.Context(), c, cmd.OutOrStdout(), root.SharedFlags.Input)
	},
}

func run(ctx context.Context, c *container.Container, out io.Writer, input string) error {
	if input == "" {
		return fmt.Errorf("input file must be specified")
	}
	pages, err := c.GetExtractor().ExtractPages(ctx, input)
	if err != nil {
		return err
	}

	d := detector.New(c.GetRegistry(), c.GetConfig().Parsing.DetectLookahead, c.GetLogger())
	match, ok := d.DetectPages(pages)
	if !ok {
		_, _ = fmt.Fprintln(out, "not detected")
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s (by %s on page %d)\n", match.Layout, match.Method, match.Page)
	return nil
}
