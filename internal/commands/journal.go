package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

func newJournalCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Post and list journal entries",
	}
	cmd.AddCommand(
		newJournalAddCommand(opts),
		newJournalListCommand(opts),
		newJournalImportCommand(opts),
		newJournalTemplatesCommand(),
	)
	return cmd
}

func newJournalAddCommand(opts *globalOptions) *cobra.Command {
	var date, reference, description, template, amount string
	var lines []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a balanced journal entry",
		Long: `Post a balanced journal entry.

Each --line is CODE:debit|credit:AMOUNT, for example
  ledger journal add --desc "Trip to Alexandria" --line 1130:debit:1500 --line 4100:credit:1500

With --template, the lines come from a quick template and --amount.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			draft := journal.Draft{Reference: reference, Description: description}
			if date != "" {
				draft.Date, err = time.Parse(period.DateFormat, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
				}
			}

			switch {
			case template != "":
				tpl, ok := journal.Templates[template]
				if !ok {
					return fmt.Errorf("unknown template %q (have %s)", template, strings.Join(journal.TemplateNames(), ", "))
				}
				amt, err := journal.ParseAmount(amount)
				if err != nil {
					return err
				}
				draft.Lines, err = tpl.Expand(amt, ws.svc.ResolveCode)
				if err != nil {
					return err
				}
				if draft.Description == "" {
					draft.Description = tpl.Description
				}
			default:
				for _, arg := range lines {
					l, err := parseLine(arg, ws.svc.ResolveCode)
					if err != nil {
						return err
					}
					draft.Lines = append(draft.Lines, l)
				}
			}

			entry, err := ws.svc.Post(draft)
			if err != nil {
				var verrs journal.ValidationErrors
				if errors.As(err, &verrs) {
					for _, v := range verrs {
						fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", v.Error())
					}
					return errors.New("journal entry rejected")
				}
				return err
			}
			ws.commit(fmt.Sprintf("journal: %s %s", entry.ID, entry.Description))

			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s (%s) %s\n", entry.ID, entry.Date.Format(period.DateFormat), ws.money.Format(entry.TotalAmount))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&reference, "ref", "", "reference (default the entry ID)")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "CODE:debit|credit:AMOUNT (repeatable)")
	cmd.Flags().StringVar(&template, "template", "", "quick template name")
	cmd.Flags().StringVar(&amount, "amount", "", "amount for --template")
	cmd.MarkFlagsMutuallyExclusive("template", "line")

	return cmd
}

// parseLine parses CODE:debit|credit:AMOUNT. The side is checked by
// validation.
func parseLine(arg string, resolve func(string) (string, error)) (model.JournalLine, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return model.JournalLine{}, fmt.Errorf("invalid line %q: want CODE:debit|credit:AMOUNT", arg)
	}
	accountID, err := resolve(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.JournalLine{}, err
	}
	amount, err := journal.ParseAmount(parts[2])
	if err != nil {
		return model.JournalLine{}, err
	}
	return model.JournalLine{
		AccountID: accountID,
		Type:      model.LineType(strings.ToLower(strings.TrimSpace(parts[1]))),
		Amount:    amount,
	}, nil
}

func newJournalListCommand(opts *globalOptions) *cobra.Command {
	var periodName, start, end string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
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

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tREFERENCE\tDESCRIPTION\tLINES\tTOTAL")
			for _, e := range ws.svc.Entries() {
				if !filter.Match(e.Date) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					e.ID, e.Date.Format(period.DateFormat), e.Reference, e.Description, len(e.Lines), ws.money.Format(e.TotalAmount))
			}
			return tw.Flush()
		},
	}

	addPeriodFlags(cmd, &periodName, &start, &end)
	return cmd
}

func newJournalTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List quick entry templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range journal.TemplateNames() {
				tpl := journal.Templates[name]
				sides := make([]string, len(tpl.Lines))
				for i, l := range tpl.Lines {
					sides[i] = fmt.Sprintf("%s %s", l.Type, l.Code)
				}
				fmt.Fprintf(out, "%-16s %-28s %s\n", name, tpl.Description, strings.Join(sides, ", "))
			}
			return nil
		},
	}
}

func addPeriodFlags(cmd *cobra.Command, name, start, end *string) {
	cmd.Flags().StringVar(name, "period", "all", "all, today, week, month, quarter or year")
	cmd.Flags().StringVar(start, "start", "", "custom range start YYYY-MM-DD (needs --end)")
	cmd.Flags().StringVar(end, "end", "", "custom range end YYYY-MM-DD (needs --start)")
}
