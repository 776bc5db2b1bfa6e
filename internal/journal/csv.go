package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one journal line.
const Header = "entry_id,date,reference,description,line,account_id,type,amount,created_at"

const (
	numFields  = 9
	dateFormat = "2006-01-02"
	colEntryID = 0
	colDate    = 1
	colRef     = 2
	colDesc    = 3
	colLine    = 4
	colAcctID  = 5
	colType    = 6
	colAmount  = 7
	colCreated = 8
)

// ReadEntries reads journal.csv and regroups consecutive rows into entries.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entry, line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		n := len(entries)
		if n > 0 && entries[n-1].ID == entry.ID {
			entries[n-1].Lines = append(entries[n-1].Lines, line)
			continue
		}
		entry.Lines = []model.JournalLine{line}
		entries = append(entries, entry)
	}

	for i := range entries {
		entries[i].TotalAmount, _ = Totals(entries[i].Lines)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeRows(cw, entries); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendEntries appends entries to an existing journal.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	if err := writeRows(cw, entries); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(cw *csv.Writer, entries []model.JournalEntry) error {
	for _, entry := range entries {
		for i := range entry.Lines {
			if err := cw.Write(MarshalLine(entry, i)); err != nil {
				return fmt.Errorf("writing %s line %d: %w", entry.ID, i+1, err)
			}
		}
	}
	return nil
}

// MarshalLine converts line i of an entry to a CSV row ([]string).
func MarshalLine(entry model.JournalEntry, i int) []string {
	line := entry.Lines[i]
	row := make([]string, numFields)
	row[colEntryID] = entry.ID
	row[colDate] = entry.Date.Format(dateFormat)
	row[colRef] = entry.Reference
	row[colDesc] = entry.Description
	row[colLine] = strconv.Itoa(i + 1)
	row[colAcctID] = line.AccountID
	row[colType] = string(line.Type)
	row[colAmount] = line.Amount.String()
	if !entry.CreatedAt.IsZero() {
		row[colCreated] = entry.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// UnmarshalLine converts a CSV row to the entry header fields and one line.
func UnmarshalLine(record []string) (model.JournalEntry, model.JournalLine, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	typ := model.LineType(record[colType])
	if !typ.Valid() {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing type %q: %w", record[colType], ErrInvalidLineType)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var created time.Time
	if record[colCreated] != "" {
		created, err = time.Parse(time.RFC3339, record[colCreated])
		if err != nil {
			return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing created_at %q: %w", record[colCreated], err)
		}
	}

	entry := model.JournalEntry{
		ID:          record[colEntryID],
		Date:        date,
		Reference:   record[colRef],
		Description: record[colDesc],
		CreatedAt:   created,
	}
	line := model.JournalLine{
		AccountID: record[colAcctID],
		Type:      typ,
		Amount:    amount,
	}
	return entry, line, nil
}
