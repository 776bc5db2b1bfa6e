package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/ledger"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
	"github.com/cleared-dev/ledger/internal/trialbalance"
)

type reportFlags struct {
	period, start, end string
	typ, search        string
	active, csv        bool
}

func (f *reportFlags) register(cmd *cobra.Command, activeHelp string) {
	addPeriodFlags(cmd, &f.period, &f.start, &f.end)
	cmd.Flags().StringVar(&f.typ, "type", "all", "account type filter")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "match account name or code")
	cmd.Flags().BoolVar(&f.active, "active", false, activeHelp)
	cmd.Flags().BoolVar(&f.csv, "csv", false, "write CSV instead of a table")
}

func (f *reportFlags) parse() (period.Filter, model.AccountType, error) {
	filter, err := period.New(f.period, f.start, f.end)
	if err != nil {
		return period.Filter{}, "", err
	}
	typ, err := parseAccountType(f.typ)
	if err != nil {
		return period.Filter{}, "", err
	}
	return filter, typ, nil
}

func newLedgerCommand(opts *globalOptions) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show the general ledger with running balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, typ, err := f.parse()
			if err != nil {
				return err
			}

			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree, entries := ws.svc.Books()
			view := ledger.View(tree, entries, filter, ledger.Options{
				OnlyWithTransactions: f.active,
				Type:                 typ,
				Search:               f.search,
			})

			out := cmd.OutOrStdout()
			if f.csv {
				return ledger.WriteCSV(out, view, ws.money.Format)
			}

			fmt.Fprintf(out, "General ledger (%s)\n", filter)
			for _, l := range view {
				fmt.Fprintf(out, "\n%s %s [%s]\n", l.Code, l.Name, l.Type)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "  \tOpening balance\t\t\t%s\n", ws.money.Format(l.OpeningBalance))
				for _, tx := range l.Transactions {
					var dr, cr string
					if tx.Type == model.Debit {
						dr = ws.money.Format(tx.Amount)
					} else {
						cr = ws.money.Format(tx.Amount)
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", tx.Date.Format(period.DateFormat), tx.Description, dr, cr, ws.money.Format(tx.BalanceAfter))
				}
				fmt.Fprintf(tw, "  \tTotals\t%s\t%s\t%s\n", ws.money.Format(l.TotalDebit), ws.money.Format(l.TotalCredit), ws.money.Format(l.ClosingBalance))
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f.register(cmd, "only accounts with transactions")
	return cmd
}

func newTrialBalanceCommand(opts *globalOptions) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Show the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, typ, err := f.parse()
			if err != nil {
				return err
			}

			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree, entries := ws.svc.Books()
			report := trialbalance.Aggregate(tree, entries, filter, trialbalance.Options{
				OnlyWithActivity: f.active,
				Type:             typ,
				Search:           f.search,
			})

			out := cmd.OutOrStdout()
			if f.csv {
				return trialbalance.WriteCSV(out, report, ws.money.Format)
			}

			fmt.Fprintf(out, "Trial balance (%s)\n\n", filter)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\tDEBIT BAL\tCREDIT BAL")
			for _, g := range report.Groups {
				for _, r := range g.Rows {
					fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t%s\t%s\n", r.Code, strings.Repeat("  ", r.Level), r.Name,
						ws.money.Format(r.TotalDebit), ws.money.Format(r.TotalCredit),
						ws.money.Format(r.DebitBalance), ws.money.Format(r.CreditBalance))
				}
				s := g.Subtotal
				fmt.Fprintf(tw, "\tTotal %s\t%s\t%s\t%s\t%s\n", g.Type,
					ws.money.Format(s.TotalDebit), ws.money.Format(s.TotalCredit),
					ws.money.Format(s.DebitBalance), ws.money.Format(s.CreditBalance))
			}
			t := report.Total
			fmt.Fprintf(tw, "\tGrand total\t%s\t%s\t%s\t%s\n",
				ws.money.Format(t.TotalDebit), ws.money.Format(t.TotalCredit),
				ws.money.Format(t.DebitBalance), ws.money.Format(t.CreditBalance))
			if err := tw.Flush(); err != nil {
				return err
			}

			switch {
			case report.IsBalanced:
				fmt.Fprintln(out, "\nBalanced")
			default:
				fmt.Fprintf(out, "\nNOT balanced: difference %s\n", ws.money.Format(t.DebitBalance.Sub(t.CreditBalance)))
			}
			if report.Filtered {
				fmt.Fprintln(out, "(filtered view; run 'ledger check' for the full ledger)")
			}
			return nil
		},
	}

	f.register(cmd, "only accounts with activity or an opening balance")
	return cmd
}

func newStatementCommand(opts *globalOptions) *cobra.Command {
	var search, side string

	cmd := &cobra.Command{
		Use:   "statement <account-code>",
		Short: "Show one account's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var st ledger.StatementOptions
			st.Search = search
			if side != "" && side != "all" {
				st.Type = model.LineType(strings.ToLower(side))
				if !st.Type.Valid() {
					return fmt.Errorf("--side must be debit, credit or all")
				}
			}

			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			accountID, err := ws.svc.ResolveCode(args[0])
			if err != nil {
				return err
			}
			tree, entries := ws.svc.Books()
			stmt, ok := ledger.AccountStatement(tree, entries, accountID, st)
			if !ok {
				return fmt.Errorf("account %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			a := stmt.Account
			fmt.Fprintf(out, "%s %s [%s]\n", a.Code, a.Name, a.Type)
			fmt.Fprintf(out, "Balance: %s\n\n", ws.money.Format(a.ClosingBalance))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tREFERENCE\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE")
			for _, tx := range stmt.Transactions {
				var dr, cr string
				if tx.Type == model.Debit {
					dr = ws.money.Format(tx.Amount)
				} else {
					cr = ws.money.Format(tx.Amount)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", tx.Date.Format(period.DateFormat), tx.Reference, tx.Description, dr, cr, ws.money.Format(tx.BalanceAfter))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d transactions, debits %s, credits %s\n", stmt.TransactionCount, ws.money.Format(stmt.TotalDebit), ws.money.Format(stmt.TotalCredit))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "match description or reference")
	cmd.Flags().StringVar(&side, "side", "all", "debit, credit or all")
	return cmd
}

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	var periodName, start, end string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show revenue, expenses and net profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := period.New(periodName, start, end)
			if err != nil {
				return err
			}

			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree, entries := ws.svc.Books()
			s := trialbalance.Summarize(tree, entries, filter)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Summary (%s)\n", filter)
			fmt.Fprintf(out, "  Revenue:    %s\n", ws.brief.Format(s.TotalRevenue))
			fmt.Fprintf(out, "  Expenses:   %s\n", ws.brief.Format(s.TotalExpenses))
			fmt.Fprintf(out, "  Net profit: %s (%s%% margin)\n", ws.brief.Format(s.NetProfit), s.ProfitMargin.StringFixed(1))
			return nil
		},
	}

	addPeriodFlags(cmd, &periodName, &start, &end)
	return cmd
}
