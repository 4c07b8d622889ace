package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the active period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := s.Ledger().Validate()
			if len(problems) == 0 {
				fmt.Fprintf(out, "%s: OK (%d stores, %d items)\n", s.Period(), len(s.Ledger().Stores()), s.Ledger().ItemCount())
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, p.Error())
			}
			return fmt.Errorf("%s: %d problems found", s.Period(), len(problems))
		},
	}
}
