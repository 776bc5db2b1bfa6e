package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/trialbalance"
)

// errUnbalanced makes `ledger check` exit non-zero.
var errUnbalanced = errors.New("trial balance is not balanced")

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that total debits equal total credits across the whole ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(opts, os.Stderr)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree, entries := ws.svc.Books()
			v := trialbalance.Check(tree, entries)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accounts: %d, entries: %d\n", v.Accounts, v.Entries)
			fmt.Fprintf(out, "Debit balances:  %s\n", ws.money.Format(v.DebitBalance))
			fmt.Fprintf(out, "Credit balances: %s\n", ws.money.Format(v.CreditBalance))
			if v.IsBalanced {
				fmt.Fprintln(out, "OK: ledger is balanced")
				return nil
			}

			ws.logger.Warn("trial balance is unbalanced",
				"debit_balance", v.DebitBalance.String(),
				"credit_balance", v.CreditBalance.String(),
				"difference", v.Difference.String(),
			)
			fmt.Fprintf(out, "Difference: %s\n", ws.money.Format(v.Difference))
			return errUnbalanced
		},
	}
}
