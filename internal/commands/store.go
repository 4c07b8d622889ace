package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/model"
)

func newStoreCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the stores of the active period",
	}
	cmd.AddCommand(
		newStoreListCommand(g),
		newStoreAddCommand(g),
		newStoreRemoveCommand(g),
	)
	return cmd
}

func newStoreListCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stores with their item count and total",
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
			sum := s.Ledger().Summary()
			if len(sum.Stores) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No stores in %s.\n", s.Period())
				return nil
			}

			opts := w.reportOptions()
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Items", "Total"})
			for _, st := range sum.Stores {
				t.AppendRow(table.Row{st.Slug, model.DisplayName(st.Slug), st.Items, opts.Currency + st.Total.StringFixed(2)})
			}
			t.SetStyle(table.StyleRounded)
			t.Style().Format.Header = text.FormatDefault
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 3, Align: text.AlignRight},
				{Number: 4, Align: text.AlignRight},
			})
			t.Render()
			return nil
		},
	}
}

func newStoreAddCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Register one or more stores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(true)
			if err != nil {
				return err
			}
			for _, name := range args {
				slug, err := s.AddStore(name)
				if err != nil {
					return fmt.Errorf("adding %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added store %s (%s)\n", model.DisplayName(slug), slug)
			}
			return nil
		},
	}
}

func newStoreRemoveCommand(g *globalOptions) *cobra.Command {
	var everywhere bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <store>",
		Short: "Remove a store and its items",
		Long: "Remove a store and its items from the active period. With --everywhere " +
			"the store is also removed from every other saved period.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			s, err := w.open(false)
			if err != nil {
				return err
			}
			slug, err := resolveStore(s.Ledger(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				question := fmt.Sprintf("Remove %s and its %d items from %s?",
					model.DisplayName(slug), len(s.Ledger().Items(slug)), s.Period())
				if everywhere {
					question = fmt.Sprintf("Remove %s from every saved period?", model.DisplayName(slug))
				}
				ok, err := newPrompter(cmd, w.cfg.Currency).confirm(question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			res, err := s.RemoveStore(slug, everywhere)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed store %s from %s\n", slug, s.Period())
			for _, f := range res.Modified {
				fmt.Fprintf(out, "  also removed from %s\n", f)
			}
			if len(res.Failed) == 0 {
				return nil
			}
			files := make([]string, 0, len(res.Failed))
			for f := range res.Failed {
				files = append(files, f)
			}
			sort.Strings(files)
			for _, f := range files {
				fmt.Fprintf(out, "  failed %s: %v\n", f, res.Failed[f])
			}
			return fmt.Errorf("store removed partially: %d files failed", len(res.Failed))
		},
	}

	cmd.Flags().BoolVar(&everywhere, "everywhere", false, "also remove the store from every other period")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
