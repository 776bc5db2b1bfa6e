package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

const (
	numFields  = 7
	colID      = 0
	colCode    = 1
	colName    = 2
	colType    = 3
	colParent  = 4
	colBalance = 5
	colDesc    = 6
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"account_id", "code", "name", "account_type", "parent_id", "balance", "description"}

// ReadAccounts reads chart-of-accounts.csv and rebuilds the tree. Rows must
// list a parent before its children.
func ReadAccounts(r io.Reader) ([]*model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var tree []*model.Account
	byID := make(map[string]*model.Account)
	for i, rec := range records[1:] {
		acct, parentID, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, dup := byID[acct.ID]; dup {
			return nil, fmt.Errorf("row %d: duplicate account_id %q", i+2, acct.ID)
		}
		byID[acct.ID] = acct

		if parentID == "" {
			tree = append(tree, acct)
			continue
		}
		parent, ok := byID[parentID]
		if !ok {
			return nil, fmt.Errorf("row %d: parent %q not defined before child", i+2, parentID)
		}
		parent.Children = append(parent.Children, acct)
	}
	return tree, nil
}

// WriteAccounts writes the tree to chart-of-accounts.csv in chart order.
func WriteAccounts(w io.Writer, tree []*model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	var walk func(list []*model.Account, parentID string) error
	walk = func(list []*model.Account, parentID string) error {
		for _, acct := range list {
			if err := cw.Write(MarshalAccount(acct, parentID)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
			if err := walk(acct.Children, acct.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(tree, ""); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct *model.Account, parentID string) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colParent] = parentID
	row[colBalance] = acct.Balance.String()
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account and its parent ID.
func UnmarshalAccount(record []string) (*model.Account, string, error) {
	if len(record) != numFields {
		return nil, "", fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colID] == "" {
		return nil, "", fmt.Errorf("empty account_id")
	}

	typ := model.AccountType(record[colType])
	if !typ.Valid() {
		return nil, "", fmt.Errorf("unknown account_type %q", record[colType])
	}

	balance := decimal.Zero
	if record[colBalance] != "" {
		var err error
		balance, err = decimal.NewFromString(record[colBalance])
		if err != nil {
			return nil, "", fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
	}

	return &model.Account{
		ID:          record[colID],
		Code:        record[colCode],
		Name:        record[colName],
		Type:        typ,
		Balance:     balance,
		Description: record[colDesc],
	}, record[colParent], nil
}
