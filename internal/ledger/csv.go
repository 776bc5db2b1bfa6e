package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// Header is the general ledger export header.
var Header = []string{"Account Code", "Account Name", "Date", "Reference", "Description", "Debit", "Credit", "Balance"}

const dateFormat = "2006-01-02"

// WriteCSV exports one row per transaction of each ledger. Amounts are
// rendered with format.
func WriteCSV(w io.Writer, ledgers []*AccountLedger, format func(decimal.Decimal) string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, l := range ledgers {
		for _, tx := range l.Transactions {
			var debit, credit string
			if tx.Type == model.Debit {
				debit = format(tx.Amount)
			} else {
				credit = format(tx.Amount)
			}
			row := []string{
				l.Code,
				l.Name,
				tx.Date.Format(dateFormat),
				tx.Reference,
				tx.Description,
				debit,
				credit,
				format(tx.BalanceAfter),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing %s %s: %w", l.Code, tx.EntryID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
