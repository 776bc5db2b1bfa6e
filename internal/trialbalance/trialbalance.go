// Package trialbalance aggregates the journal into per-account debit and
// credit balance columns and decides whether the books balance.
//
// Totals are summed here line by line rather than taken from the ledger
// projection so that the verdict is an independent check.
package trialbalance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

// Tolerance is the largest debit/credit difference still reported as balanced.
var Tolerance = decimal.RequireFromString("0.01")

// Row is one account's line in the report.
type Row struct {
	AccountID      string            `json:"account_id"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	Type           model.AccountType `json:"type"`
	Level          int               `json:"level"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	TotalDebit     decimal.Decimal   `json:"total_debit"`
	TotalCredit    decimal.Decimal   `json:"total_credit"`
	NetBalance     decimal.Decimal   `json:"net_balance"`
	DebitBalance   decimal.Decimal   `json:"debit_balance"`
	CreditBalance  decimal.Decimal   `json:"credit_balance"`
}

// Totals holds the four summed columns.
type Totals struct {
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

func zeroTotals() Totals {
	return Totals{
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
	}
}

func (t *Totals) add(r Row) {
	t.TotalDebit = t.TotalDebit.Add(r.TotalDebit)
	t.TotalCredit = t.TotalCredit.Add(r.TotalCredit)
	t.DebitBalance = t.DebitBalance.Add(r.DebitBalance)
	t.CreditBalance = t.CreditBalance.Add(r.CreditBalance)
}

// Group is the rows of one account type and their subtotal.
type Group struct {
	Type     model.AccountType `json:"type"`
	Rows     []Row             `json:"rows"`
	Subtotal Totals            `json:"subtotal"`
}

// Report is the aggregated trial balance.
type Report struct {
	Period     string  `json:"period"`
	Rows       []Row   `json:"rows"`
	Groups     []Group `json:"groups"`
	Total      Totals  `json:"total"`
	IsBalanced bool    `json:"is_balanced"`
	// Filtered is set when any account was dropped by Options. A filtered
	// report's verdict does not speak for the whole ledger.
	Filtered bool `json:"filtered"`
}

// Options narrows the report. Filters apply in field order.
type Options struct {
	OnlyWithActivity bool
	Type             model.AccountType // empty or "all" keeps every type
	Search           string
}

// Aggregate builds the trial balance for entries dated inside filter.
func Aggregate(tree []*model.Account, entries []model.JournalEntry, filter period.Filter, opts Options) Report {
	flat := accounts.Flatten(tree)

	type sums struct{ debit, credit decimal.Decimal }
	byID := make(map[string]*sums, len(flat))
	for _, n := range flat {
		byID[n.Account.ID] = &sums{debit: decimal.Zero, credit: decimal.Zero}
	}
	for _, e := range entries {
		if !filter.Match(e.Date) {
			continue
		}
		for _, l := range e.Lines {
			s, ok := byID[l.AccountID]
			if !ok {
				continue
			}
			if l.Type == model.Debit {
				s.debit = s.debit.Add(l.Amount)
			} else if l.Type == model.Credit {
				s.credit = s.credit.Add(l.Amount)
			}
		}
	}

	q := strings.ToLower(strings.TrimSpace(opts.Search))
	report := Report{Period: filter.String(), Rows: []Row{}, Total: zeroTotals()}
	groups := make(map[model.AccountType]*Group, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		groups[t] = &Group{Type: t, Rows: []Row{}, Subtotal: zeroTotals()}
	}

	for _, n := range flat {
		a := n.Account
		s := byID[a.ID]
		row := Row{
			AccountID:      a.ID,
			Code:           a.Code,
			Name:           a.Name,
			Type:           a.Type,
			Level:          n.Level,
			OpeningBalance: a.Balance,
			TotalDebit:     s.debit,
			TotalCredit:    s.credit,
		}
		if a.Type.DebitNormal() {
			row.NetBalance = a.Balance.Add(s.debit).Sub(s.credit)
		} else {
			row.NetBalance = a.Balance.Add(s.credit).Sub(s.debit)
		}
		row.DebitBalance = decimal.Max(row.NetBalance, decimal.Zero)
		row.CreditBalance = decimal.Max(row.NetBalance.Neg(), decimal.Zero)

		if !keep(row, opts, q) {
			report.Filtered = true
			continue
		}
		report.Rows = append(report.Rows, row)
		report.Total.add(row)
		if g, ok := groups[row.Type]; ok {
			g.Rows = append(g.Rows, row)
			g.Subtotal.add(row)
		}
	}

	for _, t := range model.AccountTypes {
		if g := groups[t]; len(g.Rows) > 0 {
			report.Groups = append(report.Groups, *g)
		}
	}
	report.IsBalanced = report.Total.DebitBalance.Sub(report.Total.CreditBalance).Abs().LessThan(Tolerance)
	return report
}

func keep(r Row, opts Options, q string) bool {
	if opts.OnlyWithActivity && r.TotalDebit.IsZero() && r.TotalCredit.IsZero() && r.OpeningBalance.IsZero() {
		return false
	}
	if opts.Type != "" && opts.Type != "all" && r.Type != opts.Type {
		return false
	}
	if q != "" && !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Code), q) {
		return false
	}
	return true
}

// Verdict is the result of a system health check.
type Verdict struct {
	IsBalanced    bool            `json:"is_balanced"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Difference    decimal.Decimal `json:"difference"`
	Accounts      int             `json:"accounts"`
	Entries       int             `json:"entries"`
}

// Check aggregates the full unfiltered ledger. It only reports; balances
// are never corrected.
func Check(tree []*model.Account, entries []model.JournalEntry) Verdict {
	r := Aggregate(tree, entries, period.Filter{Preset: period.All}, Options{})
	return Verdict{
		IsBalanced:    r.IsBalanced,
		DebitBalance:  r.Total.DebitBalance,
		CreditBalance: r.Total.CreditBalance,
		Difference:    r.Total.DebitBalance.Sub(r.Total.CreditBalance),
		Accounts:      len(r.Rows),
		Entries:       len(entries),
	}
}
