package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/model"
	"github.com/compras-dev/compras/internal/report"
)

func newShowCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [store]",
		Short: "Print the items and totals of the active period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(false)
			if err != nil {
				return err
			}
			l := s.Ledger()
			out := cmd.OutOrStdout()
			opts := w.reportOptions()

			if len(args) == 1 {
				slug, err := resolveStore(l, args[0])
				if err != nil {
					return err
				}
				report.RenderStore(out, l, slug, opts)
				return nil
			}

			fmt.Fprintf(out, "%s\n\n", model.PeriodTitle(l.Period()))
			for _, slug := range l.Stores() {
				report.RenderStore(out, l, slug, opts)
				fmt.Fprintln(out)
			}
			report.RenderSummary(out, l, opts)
			return nil
		},
	}
}
