package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

// StatementOptions narrows an account statement.
type StatementOptions struct {
	Search string         // matches description or reference
	Type   model.LineType // empty keeps both sides
}

// Statement is a single account's transactions with a summary over the
// transactions shown.
type Statement struct {
	Account          *AccountLedger  `json:"account"`
	Transactions     []Transaction   `json:"transactions"`
	TotalDebit       decimal.Decimal `json:"total_debit"`
	TotalCredit      decimal.Decimal `json:"total_credit"`
	TransactionCount int             `json:"transaction_count"`
}

// AccountStatement projects the whole journal onto one account and applies
// the text and side filters. It returns false if the account is unknown.
func AccountStatement(tree []*model.Account, entries []model.JournalEntry, accountID string, opts StatementOptions) (*Statement, bool) {
	l, ok := Project(tree, entries, period.Filter{Preset: period.All})[accountID]
	if !ok {
		return nil, false
	}

	q := strings.ToLower(strings.TrimSpace(opts.Search))
	st := &Statement{
		Account:      l,
		Transactions: []Transaction{},
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}
	for _, tx := range l.Transactions {
		if opts.Type != "" && tx.Type != opts.Type {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(tx.Description), q) && !strings.Contains(strings.ToLower(tx.Reference), q) {
			continue
		}
		st.Transactions = append(st.Transactions, tx)
		if tx.Type == model.Debit {
			st.TotalDebit = st.TotalDebit.Add(tx.Amount)
		} else {
			st.TotalCredit = st.TotalCredit.Add(tx.Amount)
		}
	}
	st.TransactionCount = len(st.Transactions)
	return st, true
}
