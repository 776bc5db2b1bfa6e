package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
)

func newAccountCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountListCommand(opts), newAccountAddCommand(opts))
	return cmd
}

func newAccountListCommand(opts *globalOptions) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseAccountType(typ)
			if err != nil {
				return err
			}

			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree, _ := ws.svc.Snapshot()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tBALANCE\t")
			for _, n := range accounts.Flatten(tree) {
				a := n.Account
				if filter != "" && a.Type != filter {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t\n", a.Code, strings.Repeat("  ", n.Level), a.Name, a.Type, ws.money.Format(a.Balance))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "only show accounts of this type")
	return cmd
}

func newAccountAddCommand(opts *globalOptions) *cobra.Command {
	var p accounts.NewAccount
	var typ, parentCode, opening string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			p.Type = model.AccountType(strings.ToLower(typ))
			if opening != "" {
				p.OpeningBalance, err = decimal.NewFromString(opening)
				if err != nil {
					return fmt.Errorf("invalid opening balance %q: %w", opening, err)
				}
			}
			if parentCode != "" {
				p.ParentID, err = ws.svc.ResolveCode(parentCode)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				if parent, ok := ws.svc.Account(p.ParentID); ok && p.Type == "" {
					p.Type = parent.Type
				}
			}

			acct, err := ws.svc.AddAccount(p)
			if err != nil {
				return err
			}
			ws.commit(fmt.Sprintf("account: Add %s %s", acct.Code, acct.Name))

			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s %s (%s)\n", acct.Code, acct.Name, acct.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Code, "code", "", "account code (required, unique)")
	cmd.Flags().StringVar(&p.Name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&typ, "type", "", "asset, liability, equity, revenue or expense (default: parent's type)")
	cmd.Flags().StringVar(&parentCode, "parent", "", "code of the parent account")
	cmd.Flags().StringVar(&opening, "opening-balance", "", "opening balance")
	cmd.Flags().StringVar(&p.Description, "description", "", "free-text description")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func parseAccountType(s string) (model.AccountType, error) {
	t := model.AccountType(strings.ToLower(s))
	if t == "" || t == "all" {
		return "", nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}
