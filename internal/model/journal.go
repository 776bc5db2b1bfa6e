package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineType is the side of a journal line.
type LineType string

const (
	Debit  LineType = "debit"
	Credit LineType = "credit"
)

// Valid reports whether t is debit or credit.
func (t LineType) Valid() bool {
	return t == Debit || t == Credit
}

// JournalLine is one side of a journal entry. AccountID is a weak reference
// resolved by lookup in the chart of accounts.
type JournalLine struct {
	AccountID string          `json:"account_id"`
	Type      LineType        `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// JournalEntry is an immutable, balanced set of journal lines.
type JournalEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Lines       []JournalLine   `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SignedDelta returns the effect of a line of the given side and amount on the
// balance of an account of type t: positive when the line moves the account
// toward its normal balance.
func SignedDelta(t AccountType, side LineType, amount decimal.Decimal) decimal.Decimal {
	if (side == Debit) == t.DebitNormal() {
		return amount
	}
	return amount.Neg()
}
