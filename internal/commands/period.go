package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/model"
	"github.com/compras-dev/compras/internal/session"
)

func newPeriodCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Manage monthly purchase files",
	}
	cmd.AddCommand(
		newPeriodListCommand(g),
		newPeriodNewCommand(g),
		newPeriodSaveAsCommand(g),
	)
	return cmd
}

func newPeriodListCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			periods, err := w.repo.Periods()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(periods) == 0 {
				fmt.Fprintln(out, "No saved periods.")
				return nil
			}
			for _, p := range periods {
				marker := " "
				if p == w.period {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-24s %s\n", marker, p, model.PeriodTitle(p))
			}
			return nil
		},
	}
}

func newPeriodNewCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty period",
		Long:  "Create an empty period. Without a name the --period value, or the current month, is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			name := w.period
			if len(args) > 0 {
				name = args[0]
			}
			s, err := session.Create(w.repo, name, w.sessionOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created period %s (%s)\n", s.Period(), w.repo.Path(s.Period()))
			return nil
		},
	}
}

func newPeriodSaveAsCommand(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "save-as <name>",
		Short: "Copy the active period under another name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(false)
			if err != nil {
				return err
			}
			path, err := s.SaveAs(args[0], force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as %s\n", s.Period(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing period file")

	return cmd
}
