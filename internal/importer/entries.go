package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
)

// EntriesParser reads one row per journal line:
//
//	date,reference,description,account_code,type,amount
//
// Consecutive rows with the same date, reference and description form one
// entry. A blank reference lets the journal assign one.
type EntriesParser struct{}

const (
	entriesNumFields = 6
	entriesColDate   = 0
	entriesColRef    = 1
	entriesColDesc   = 2
	entriesColCode   = 3
	entriesColType   = 4
	entriesColAmount = 5
)

// Format returns the parser name.
func (p *EntriesParser) Format() string { return "entries" }

// Parse reads the CSV. The first row is a header.
func (p *EntriesParser) Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = entriesNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var out []Entry
	for i, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", rec[entriesColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[entriesColDate], err)
		}
		amount, err := journal.ParseAmount(rec[entriesColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		line := Line{
			Code:   strings.TrimSpace(rec[entriesColCode]),
			Type:   model.LineType(strings.ToLower(strings.TrimSpace(rec[entriesColType]))),
			Amount: amount,
		}

		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Date.Equal(date) && last.Reference == rec[entriesColRef] && last.Description == rec[entriesColDesc] {
				last.Lines = append(last.Lines, line)
				continue
			}
		}
		out = append(out, Entry{
			Date:        date,
			Reference:   rec[entriesColRef],
			Description: rec[entriesColDesc],
			Lines:       []Line{line},
		})
	}
	return out, nil
}
