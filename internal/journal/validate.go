package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// Validation failures. They are deterministic for a given input; fix the
// input rather than retrying.
var (
	ErrMissingAccount  = errors.New("missing account")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidLineType = errors.New("invalid line type")
	ErrTooFewLines     = errors.New("too few lines")
	ErrUnbalanced      = errors.New("unbalanced entry")
)

// MinLines is the smallest number of lines a journal entry may carry.
const MinLines = 2

// Tolerance is the largest debit/credit difference still considered balanced.
var Tolerance = decimal.RequireFromString("0.01")

// ValidationError describes a single rule violation. Line is the zero-based
// line index, or -1 for entry-level violations.
type ValidationError struct {
	Kind        error
	Line        int
	Description string
}

func (e ValidationError) Error() string {
	if e.Line < 0 {
		return e.Description
	}
	return fmt.Sprintf("line %d: %s", e.Line+1, e.Description)
}

func (e ValidationError) Unwrap() error {
	return e.Kind
}

// ValidationErrors is every violation found in one entry.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any of the contained kinds.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// Result is an accepted entry with its computed totals.
type Result struct {
	Entry       model.JournalEntry
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// Totals sums the debit and credit sides of a set of lines.
func Totals(lines []model.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		switch l.Type {
		case model.Debit:
			debit = debit.Add(l.Amount)
		case model.Credit:
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}

// Validate checks a candidate entry against the double-entry rules and the
// known accounts. It has no side effects. On success the entry is returned
// unchanged except for TotalAmount, which is set to the debit total.
func Validate(entry model.JournalEntry, accounts AccountChecker) (Result, error) {
	var errs ValidationErrors

	for i, line := range entry.Lines {
		if line.AccountID == "" || !accounts.Exists(line.AccountID) {
			errs = append(errs, ValidationError{
				Kind:        ErrMissingAccount,
				Line:        i,
				Description: fmt.Sprintf("unknown account %q", line.AccountID),
			})
		}
		if !line.Type.Valid() {
			errs = append(errs, ValidationError{
				Kind:        ErrInvalidLineType,
				Line:        i,
				Description: fmt.Sprintf("line type %q must be debit or credit", line.Type),
			})
		}
		if !line.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Kind:        ErrInvalidAmount,
				Line:        i,
				Description: fmt.Sprintf("amount %s must be greater than zero", line.Amount),
			})
		}
	}

	if len(entry.Lines) < MinLines {
		errs = append(errs, ValidationError{
			Kind:        ErrTooFewLines,
			Line:        -1,
			Description: fmt.Sprintf("entry has %d lines, need at least %d", len(entry.Lines), MinLines),
		})
	}

	debit, credit := Totals(entry.Lines)
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		errs = append(errs, ValidationError{
			Kind:        ErrUnbalanced,
			Line:        -1,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}

	if len(errs) > 0 {
		return Result{}, errs
	}

	entry.TotalAmount = debit
	return Result{Entry: entry, DebitTotal: debit, CreditTotal: credit}, nil
}

// ParseAmount parses a user-supplied amount. Non-numeric input is reported as
// ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	return d, nil
}
