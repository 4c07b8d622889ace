package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/activity"
)

func newLogCommand(g *globalOptions) *cobra.Command {
	var all bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			entries, err := w.activity.Read()
			if err != nil {
				return err
			}

			var shown []activity.Entry
			for _, e := range entries {
				if all || e.Period == w.period {
					shown = append(shown, e)
				}
			}
			if limit > 0 && len(shown) > limit {
				shown = shown[len(shown)-limit:]
			}
			if len(shown) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Time", "Period", "Action", "Store", "Product", "Details"})
			for _, e := range shown {
				t.AppendRow(table.Row{
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Period,
					string(e.Action),
					e.Store,
					e.Product,
					e.Details,
				})
			}
			t.SetStyle(table.StyleRounded)
			t.Style().Format.Header = text.FormatDefault
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include every period")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n entries (0 for all)")

	return cmd
}
