// Package layouts lists the supported bank layouts
package layouts

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/bankstmt/cmd/root"
	"fjacquet/bankstmt/internal/layout"

	"github.com/spf13/cobra"
)

// Cmd represents the layouts command
var Cmd = &cobra.Command{
	Use:   "layouts",
	Short: "List supported bank layouts in detection order",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return run(cmd.OutOrStdout(), c.GetRegistry())
	},
}

func run(out io.Writer, registry *layout.Registry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBANK\tAMOUNTS")
	for _, l := range registry.All() {
		amounts := "marked Dr/Cr"
		if l.Reconcile {
			amounts = "balance reconciled"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Name, amounts)
	}
	return w.Flush()
}
