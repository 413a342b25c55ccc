// Package correct records user category corrections
package correct

import (
	"fmt"
	"io"
	"time"

	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/container"
	"fjacquet/bankstmt/internal/models"

	"github.com/spf13/cobra"
)

var (
	// Description of the corrected transaction
	Description string
	// From is the category the transaction had
	From string
	// To is the category it should have
	To string
)

// Cmd represents the correct command
var Cmd = &cobra.Command{
	Use:   "correct",
	Short: "Record a category correction",
	Long: `Record that a description belongs to another category. Corrections are
consulted before every other strategy.

Example:
  bankstmt correct -d "UPI-KAKA HALWAI" --from Uncategorized --to "Food & Dining"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(c, cmd.OutOrStdout(), Description, From, To, time.Now())
	},
}

func init() {
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVar(&From, "from", models.CategoryUncategorized, "Category the transaction was given")
	Cmd.Flags().StringVar(&To, "to", "", "Correct category")
	_ = Cmd.MarkFlagRequired("description")
	_ = Cmd.MarkFlagRequired("to")
}

func run(c *container.Container, out io.Writer, description, from, to string, now time.Time) error {
	correction := models.Correction{
		Description:       description,
		OriginalCategory:  from,
		CorrectedCategory: to,
		Timestamp:         models.Timestamp{Time: now},
	}
	if err := c.GetCorrectionStore().Append(correction); err != nil {
		return err
	}
	if learned := c.GetCorrections(); learned != nil {
		learned.Learn(correction)
	}
	_, _ = fmt.Fprintf(out, "Saved: %q -> %s\n", description, to)
	return nil
}
