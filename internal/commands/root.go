package commands

import (
	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/buildinfo"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	repo    string
	period  string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "compras",
		Short:   "Grocery purchase ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVarP(&opts.period, "period", "p", "", "period label (default: current month, e.g. octubre_2026)")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newInitCommand(),
		newPeriodCommand(opts),
		newStoreCommand(opts),
		newItemCommand(opts),
		newImportCommand(opts),
		newShowCommand(opts),
		newReportCommand(opts),
		newCheckCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
