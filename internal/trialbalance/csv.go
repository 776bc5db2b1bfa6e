package trialbalance

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Header is the trial balance export header.
var Header = []string{"Account Code", "Account Name", "Type", "Total Debit", "Total Credit", "Debit Balance", "Credit Balance"}

// WriteCSV exports the report rows followed by a Total row. Amounts are
// rendered with format.
func WriteCSV(w io.Writer, r Report, format func(decimal.Decimal) string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			row.Code,
			row.Name,
			string(row.Type),
			format(row.TotalDebit),
			format(row.TotalCredit),
			format(row.DebitBalance),
			format(row.CreditBalance),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing account %s: %w", row.Code, err)
		}
	}

	total := []string{
		"Total", "", "",
		format(r.Total.TotalDebit),
		format(r.Total.TotalCredit),
		format(r.Total.DebitBalance),
		format(r.Total.CreditBalance),
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
