package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

func newItemCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit or remove purchased items",
	}
	cmd.AddCommand(
		newItemAddCommand(g),
		newItemEditCommand(g),
		newItemRemoveCommand(g),
	)
	return cmd
}

func newItemAddCommand(g *globalOptions) *cobra.Command {
	var onDuplicate string

	cmd := &cobra.Command{
		Use:   "add <store> <product> <quantity> <unit-price>",
		Short: "Add an item to a store",
		Long: "Add an item to a store. When the store already has a product with the same " +
			"name (ignoring case), --on-duplicate decides: ask, sum, overwrite, new or cancel.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
			if err != nil {
				return err
			}
			item, err := model.NewLineItem(args[1], args[2], args[3])
			if err != nil {
				return err
			}
			s, err := w.open(true)
			if err != nil {
				return err
			}
			slug, err := resolveStore(s.Ledger(), args[0])
			if err != nil {
				return err
			}

			if onDuplicate == "" {
				onDuplicate = w.cfg.Duplicates
			}
			resolver, err := resolverFor(onDuplicate, newPrompter(cmd, w.cfg.Currency))
			if err != nil {
				return err
			}

			out, err := s.AddItem(slug, item, resolver)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), slug, out, w.cfg.Currency)
			if out.Action != ledger.Cancel {
				fmt.Fprintf(cmd.OutOrStdout(), "Store total: %s%s\n", w.cfg.Currency, s.Ledger().StoreTotal(slug).StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&onDuplicate, "on-duplicate", "", "ask, sum, overwrite, new or cancel (default from compras.yaml)")

	return cmd
}

func printOutcome(w io.Writer, slug string, out ledger.Outcome, currency string) {
	line := fmt.Sprintf("%s: %d x %s%s", out.Item.Product, out.Item.Quantity, currency, out.Item.UnitPrice.StringFixed(2))
	switch out.Action {
	case ledger.Added:
		fmt.Fprintf(w, "Added #%d %s to %s\n", out.Index+1, line, slug)
	case ledger.Sum:
		fmt.Fprintf(w, "Summed into #%d %s\n", out.Index+1, line)
	case ledger.Overwrite:
		fmt.Fprintf(w, "Replaced #%d with %s\n", out.Index+1, line)
	case ledger.AddNew:
		fmt.Fprintf(w, "Added #%d %s to %s\n", out.Index+1, line, slug)
	case ledger.Cancel:
		fmt.Fprintf(w, "Skipped %s\n", out.Item.Product)
	}
}

func newItemEditCommand(g *globalOptions) *cobra.Command {
	var name, qty, price string

	cmd := &cobra.Command{
		Use:   "edit <store> <n>",
		Short: "Change the name, quantity or price of item n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("qty") && !flags.Changed("price") {
				return fmt.Errorf("nothing to change: pass --name, --qty or --price")
			}

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
			index, err := itemIndex(args[1])
			if err != nil {
				return err
			}
			items := s.Ledger().Items(slug)
			if index >= len(items) {
				return fmt.Errorf("%w: %d (store has %d items)", ledger.ErrItemIndex, index+1, len(items))
			}

			item := items[index]
			if flags.Changed("name") {
				item.Product = name
			}
			if flags.Changed("qty") {
				if item.Quantity, err = model.ParseQuantity(qty); err != nil {
					return err
				}
			}
			if flags.Changed("price") {
				if item.UnitPrice, err = model.ParsePrice(price); err != nil {
					return err
				}
			}

			if err := s.EditItem(slug, index, item); err != nil {
				return err
			}
			edited := s.Ledger().Items(slug)[index]
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s: %d x %s%s\n",
				index+1, edited.Product, edited.Quantity, w.cfg.Currency, edited.UnitPrice.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().StringVar(&qty, "qty", "", "new quantity")
	cmd.Flags().StringVar(&price, "price", "", "new unit price")

	return cmd
}

func newItemRemoveCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <store> <n>",
		Short: "Remove item n from a store",
		Args:  cobra.ExactArgs(2),
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
			index, err := itemIndex(args[1])
			if err != nil {
				return err
			}
			removed, err := s.RemoveItem(slug, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d %s from %s\n", index+1, removed.Product, slug)
			return nil
		},
	}
}
