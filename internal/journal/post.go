package journal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
)

// ErrAccountNotFound means a validated entry referenced an account that is
// missing at posting time. It indicates an internal inconsistency.
var ErrAccountNotFound = errors.New("account not found")

// PostingError reports the line that could not be applied.
type PostingError struct {
	EntryID   string
	AccountID string
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("posting %s: account %q not found", e.EntryID, e.AccountID)
}

func (e *PostingError) Unwrap() error {
	return ErrAccountNotFound
}

// Post applies the entry to the persisted balances of the accounts it touches
// and returns the updated tree. The input tree is never modified: either every
// line is applied to the returned copy or an error is returned.
func Post(entry model.JournalEntry, tree []*model.Account) ([]*model.Account, error) {
	out := model.CloneTree(tree)
	idx := accounts.NewService(out)

	// Resolve every line before touching any balance.
	deltas := make(map[*model.Account]decimal.Decimal, len(entry.Lines))
	for _, line := range entry.Lines {
		acct, ok := idx.Get(line.AccountID)
		if !ok {
			return nil, &PostingError{EntryID: entry.ID, AccountID: line.AccountID}
		}
		d, seen := deltas[acct]
		if !seen {
			d = decimal.Zero
		}
		deltas[acct] = d.Add(model.SignedDelta(acct.Type, line.Type, line.Amount))
	}

	for acct, d := range deltas {
		acct.Balance = acct.Balance.Add(d)
	}
	return out, nil
}

// Rewind returns a copy of tree with the effect of every entry removed, that
// is, the balances the chart had before the journal was posted. Projections
// start from these so that posted entries are not counted twice. Lines whose
// account is missing are skipped.
func Rewind(tree []*model.Account, entries []model.JournalEntry) []*model.Account {
	out := model.CloneTree(tree)
	idx := accounts.NewService(out)
	for _, e := range entries {
		for _, line := range e.Lines {
			if acct, ok := idx.Get(line.AccountID); ok {
				acct.Balance = acct.Balance.Sub(model.SignedDelta(acct.Type, line.Type, line.Amount))
			}
		}
	}
	return out
}
