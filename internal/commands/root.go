package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Double-entry accounting ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "ledger directory")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment from this .env file (default ./.env if present)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(&opts),
		newJournalCommand(&opts),
		newLedgerCommand(&opts),
		newTrialBalanceCommand(&opts),
		newStatementCommand(&opts),
		newSummaryCommand(&opts),
		newCheckCommand(&opts),
		newServeCommand(&opts),
	)

	return rootCmd
}
