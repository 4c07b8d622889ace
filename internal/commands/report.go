package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/report"
)

func newReportCommand(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report [store]",
		Short: "Write a PDF, XLSX or text report",
		Long: "Write a report of one store, or of every store with a general summary, " +
			"into the reports directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(false)
			if err != nil {
				return err
			}

			slug := ""
			if len(args) == 1 {
				if slug, err = resolveStore(s.Ledger(), args[0]); err != nil {
					return err
				}
			}

			path, err := report.Write(w.reportsDir(), s.Ledger(), slug, f, w.reportOptions())
			if err != nil {
				return err
			}
			w.log.Debug("report written", "path", path, "format", string(f))
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(report.PDF), "pdf, xlsx or txt")

	return cmd
}
