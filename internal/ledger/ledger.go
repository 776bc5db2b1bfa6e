// Package ledger projects the journal onto each account of the chart as an
// ordered list of transactions with a running balance.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

// Transaction is one journal line as seen from its account.
type Transaction struct {
	EntryID      string          `json:"entry_id"`
	Date         time.Time       `json:"date"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
	Type         model.LineType  `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// AccountLedger is the projection of the journal onto one account.
type AccountLedger struct {
	AccountID      string            `json:"account_id"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	Type           model.AccountType `json:"type"`
	Level          int               `json:"level"`
	Transactions   []Transaction     `json:"transactions"`
	TotalDebit     decimal.Decimal   `json:"total_debit"`
	TotalCredit    decimal.Decimal   `json:"total_credit"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	ClosingBalance decimal.Decimal   `json:"closing_balance"`
	// Movement is ClosingBalance - OpeningBalance.
	Movement decimal.Decimal `json:"balance"`
}

// SortEntries returns the entries ordered by date. Entries on the same date
// keep their journal order.
func SortEntries(entries []model.JournalEntry) []model.JournalEntry {
	sorted := append([]model.JournalEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Project builds a ledger for every account in the chart. Only lines whose
// entry date passes filter are applied; the opening balance is always the
// account's persisted balance.
func Project(tree []*model.Account, entries []model.JournalEntry, filter period.Filter) map[string]*AccountLedger {
	flat := accounts.Flatten(tree)
	out := make(map[string]*AccountLedger, len(flat))
	for _, n := range flat {
		a := n.Account
		out[a.ID] = &AccountLedger{
			AccountID:      a.ID,
			Code:           a.Code,
			Name:           a.Name,
			Type:           a.Type,
			Level:          n.Level,
			Transactions:   []Transaction{},
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
			OpeningBalance: a.Balance,
			ClosingBalance: a.Balance,
		}
	}

	for _, entry := range SortEntries(entries) {
		if !filter.Match(entry.Date) {
			continue
		}
		for _, line := range entry.Lines {
			l, ok := out[line.AccountID]
			if !ok {
				continue
			}
			l.ClosingBalance = l.ClosingBalance.Add(model.SignedDelta(l.Type, line.Type, line.Amount))
			switch line.Type {
			case model.Debit:
				l.TotalDebit = l.TotalDebit.Add(line.Amount)
			case model.Credit:
				l.TotalCredit = l.TotalCredit.Add(line.Amount)
			}
			l.Transactions = append(l.Transactions, Transaction{
				EntryID:      entry.ID,
				Date:         entry.Date,
				Reference:    entry.Reference,
				Description:  entry.Description,
				Type:         line.Type,
				Amount:       line.Amount,
				BalanceAfter: l.ClosingBalance,
			})
		}
	}

	for _, l := range out {
		l.Movement = l.ClosingBalance.Sub(l.OpeningBalance)
	}
	return out
}

// Options narrows a ledger view. Filters apply in field order.
type Options struct {
	OnlyWithTransactions bool
	Type                 model.AccountType // empty or "all" keeps every type
	Search               string            // case-insensitive match on name or code
}

// View projects the journal and returns the surviving accounts in chart order.
func View(tree []*model.Account, entries []model.JournalEntry, filter period.Filter, opts Options) []*AccountLedger {
	projected := Project(tree, entries, filter)
	q := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []*AccountLedger
	for _, n := range accounts.Flatten(tree) {
		l := projected[n.Account.ID]
		if opts.OnlyWithTransactions && len(l.Transactions) == 0 {
			continue
		}
		if opts.Type != "" && opts.Type != "all" && l.Type != opts.Type {
			continue
		}
		if q != "" && !MatchesSearch(l.Name, l.Code, q) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// MatchesSearch reports whether the lower-cased query q occurs in name or code.
func MatchesSearch(name, code, q string) bool {
	return strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(code), q)
}
