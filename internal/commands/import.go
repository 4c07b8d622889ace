package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/importer"
	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/session"
)

func newImportCommand(g *globalOptions) *cobra.Command {
	var format string
	var onDuplicate string

	cmd := &cobra.Command{
		Use:   "import <store> [file]",
		Short: "Import items from a CSV or XLSX file",
		Long: "Import items into a store from a CSV or XLSX file with a header row " +
			"(producto, cantidad, precio_unitario). Without a file, every file waiting in " +
			"<data_dir>/importar/ is imported and moved to importar/procesados/.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.workspace(cmd)
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

			reg := importer.DefaultRegistry()
			if len(args) == 2 {
				return importFile(cmd, s, reg, slug, args[1], format, resolver)
			}

			files, err := reg.Scan(w.repo.Dir())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to import in %s\n", filepath.Join(w.repo.Dir(), importer.ImportDir))
				return nil
			}
			for _, f := range files {
				if err := importFile(cmd, s, reg, slug, f.Path, format, resolver); err != nil {
					return err
				}
				if err := importer.MarkProcessed(w.repo.Dir(), f.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv or xlsx (default: from the file extension)")
	cmd.Flags().StringVar(&onDuplicate, "on-duplicate", "", "ask, sum, overwrite, new or cancel (default from compras.yaml)")

	return cmd
}

func importFile(cmd *cobra.Command, s *session.Session, reg *importer.Registry, slug, path, format string, resolver ledger.Resolver) error {
	items, err := reg.ParseFile(path, format)
	if err != nil {
		return err
	}
	outcomes, err := s.AddItems(slug, items, resolver)
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}

	counts := make(map[ledger.Resolution]int)
	for _, o := range outcomes {
		counts[o.Action]++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s: %d added, %d summed, %d replaced, %d renamed, %d skipped\n",
		filepath.Base(path), slug,
		counts[ledger.Added], counts[ledger.Sum], counts[ledger.Overwrite], counts[ledger.AddNew], counts[ledger.Cancel])
	return nil
}
