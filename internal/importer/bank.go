package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// BankParser reads a bank statement export:
//
//	date,description,amount
//
// Deposits (positive amounts) debit the bank account and credit the contra
// account; withdrawals do the reverse.
type BankParser struct {
	BankCode   string
	ContraCode string
	// DateFormat defaults to "2006-01-02".
	DateFormat string
}

const (
	bankNumFields = 3
	bankColDate   = 0
	bankColDesc   = 1
	bankColAmount = 2
)

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Parse reads the CSV. The first row is a header. Zero-amount rows are
// skipped.
func (p *BankParser) Parse(r io.Reader) ([]Entry, error) {
	if p.BankCode == "" || p.ContraCode == "" {
		return nil, fmt.Errorf("bank parser needs both a bank and a contra account code")
	}
	layout := p.DateFormat
	if layout == "" {
		layout = "2006-01-02"
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = bankNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bank CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var out []Entry
	for i, rec := range records[1:] {
		date, err := time.Parse(layout, strings.TrimSpace(rec[bankColDate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[bankColDate], err)
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[bankColAmount]), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[bankColAmount], err)
		}
		if amount.IsZero() {
			continue
		}

		desc := strings.TrimSpace(rec[bankColDesc])
		bankSide, contraSide := model.Debit, model.Credit
		if amount.IsNegative() {
			bankSide, contraSide = model.Credit, model.Debit
		}
		out = append(out, Entry{
			Date:        date,
			Reference:   makeBankRef(date, desc),
			Description: desc,
			Lines: []Line{
				{Code: p.BankCode, Type: bankSide, Amount: amount.Abs()},
				{Code: p.ContraCode, Type: contraSide, Amount: amount.Abs()},
			},
		})
	}
	return out, nil
}

// makeBankRef creates a reference like bank_20250103_DIESELSTAT.
func makeBankRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("bank_%s_%s", date.Format("20060102"), strings.ToUpper(prefix))
}
