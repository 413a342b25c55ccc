// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"io"

	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/container"

	"github.com/spf13/cobra"
)

var (
	// Description is the transaction description to categorize
	Description string
	// Explain prints the answer of every strategy
	Explain bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction description",
	Long: `Categorize a transaction description with the configured strategy chain
(corrections, keyword rules, learned model, AI).

Example:
  bankstmt categorize -d "UPI-ZOMATO ORDER 7781"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(cmd.Context(), c, cmd.OutOrStdout(), Description, Explain)
	},
}

func init() {
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description to categorize")
	Cmd.Flags().BoolVar(&Explain, "explain", false, "Show the result of every strategy")
	_ = Cmd.MarkFlagRequired("description")
}

func run(ctx context.Context, c *container.Container, out io.Writer, description string, explain bool) error {
	result := c.GetCategorizer().Categorize(ctx, description)
	_, _ = fmt.Fprintf(out, "Category: %s\n", result.Category)
	_, _ = fmt.Fprintf(out, "Strategy: %s\n", result.Strategy)

	if explain {
		for _, r := range c.GetCategorizer().Explain(ctx, description).Results {
			status := "no match"
			switch {
			case r.Err != nil:
				status = "error: " + r.Err.Error()
			case r.Found:
				status = r.Category
			}
			_, _ = fmt.Fprintf(out, "  %-12s %s\n", r.Strategy, status)
		}
	}
	return nil
}
