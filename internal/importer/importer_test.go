package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
)

func parseFile(t *testing.T, p Parser, name string) []Entry {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	entries, err := p.Parse(f)
	require.NoError(t, err)
	return entries
}

func TestEntriesParser_Parse(t *testing.T) {
	entries := parseFile(t, &EntriesParser{}, "entries.csv")
	require.Len(t, entries, 3)

	first := entries[0]
	assert.Equal(t, "INV-1001", first.Reference)
	assert.Equal(t, "Trip Cairo-Alexandria", first.Description)
	assert.Equal(t, 15, first.Date.Day())
	require.Len(t, first.Lines, 2)
	assert.Equal(t, Line{Code: "1130", Type: model.Debit, Amount: first.Lines[0].Amount}, first.Lines[0])
	assert.Equal(t, "1500", first.Lines[0].Amount.String())

	// Same description on another date starts a new entry.
	assert.Len(t, entries[1].Lines, 3)
	assert.Len(t, entries[2].Lines, 2)
	assert.Empty(t, entries[1].Reference)
}

func TestEntriesParser_BadRows(t *testing.T) {
	header := "date,reference,description,account_code,type,amount\n"
	p := &EntriesParser{}

	_, err := p.Parse(strings.NewReader(header + "15/01/2025,R,d,1110,debit,1\n"))
	assert.ErrorContains(t, err, "parsing date")

	_, err = p.Parse(strings.NewReader(header + "2025-01-15,R,d,1110,debit,lots\n"))
	assert.ErrorContains(t, err, "invalid amount")

	_, err = p.Parse(strings.NewReader(header + "2025-01-15,R,d,1110\n"))
	assert.Error(t, err)
}

func TestEntriesParser_EmptyFile(t *testing.T) {
	entries, err := (&EntriesParser{}).Parse(strings.NewReader("date,reference,description,account_code,type,amount\n"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestBankParser_Parse(t *testing.T) {
	p := &BankParser{BankCode: "1120", ContraCode: "1190"}
	entries := parseFile(t, p, "bank_statement.csv")
	require.Len(t, entries, 4, "zero-amount row is skipped")

	fuel := entries[0]
	assert.Equal(t, "DIESEL STATION 14", fuel.Description)
	assert.Equal(t, "bank_20250103_DIESELSTAT", fuel.Reference)
	assert.Equal(t, []Line{
		{Code: "1120", Type: model.Credit, Amount: fuel.Lines[0].Amount},
		{Code: "1190", Type: model.Debit, Amount: fuel.Lines[1].Amount},
	}, fuel.Lines)
	assert.Equal(t, "850", fuel.Lines[0].Amount.String())

	deposit := entries[1]
	assert.Equal(t, model.Debit, deposit.Lines[0].Type)
	assert.Equal(t, "12500", deposit.Lines[0].Amount.String())
}

func TestBankParser_DateFormat(t *testing.T) {
	p := &BankParser{BankCode: "1120", ContraCode: "1190", DateFormat: "01/02/2006"}
	entries, err := p.Parse(strings.NewReader("Date,Description,Amount\n01/22/2025,FEE,-4.00\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 22, entries[0].Date.Day())
}

func TestBankParser_Errors(t *testing.T) {
	_, err := (&BankParser{}).Parse(strings.NewReader(""))
	assert.Error(t, err)

	p := &BankParser{BankCode: "1120", ContraCode: "1190"}
	_, err = p.Parse(strings.NewReader("Date,Description,Amount\nNOTADATE,desc,-4.00\n"))
	assert.ErrorContains(t, err, "parsing date")

	_, err = p.Parse(strings.NewReader("Date,Description,Amount\n2025-01-03,desc,NOTANUMBER\n"))
	assert.ErrorContains(t, err, "parsing amount")
}

func TestEntry_Draft(t *testing.T) {
	entries := parseFile(t, &EntriesParser{}, "entries.csv")
	ids := map[string]string{"1130": "1-1-3", "4100": "4-1"}
	resolve := func(code string) (string, error) {
		if id, ok := ids[code]; ok {
			return id, nil
		}
		return "", fmt.Errorf("no account %s", code)
	}

	d, err := entries[0].Draft(resolve)
	require.NoError(t, err)
	assert.Equal(t, "INV-1001", d.Reference)
	require.Len(t, d.Lines, 2)
	assert.Equal(t, "1-1-3", d.Lines[0].AccountID)
	assert.Equal(t, "4-1", d.Lines[1].AccountID)

	_, err = entries[1].Draft(resolve)
	assert.ErrorContains(t, err, "no account 5140")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := DefaultRegistry("1120", "1190")
	_, err := r.Get("ofx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorContains(t, err, "entries, bank")
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&EntriesParser{})
	for _, name := range []string{"Entries", "ENTRIES"} {
		p, err := r.Get(name)
		require.NoError(t, err)
		assert.Equal(t, "entries", p.Format())
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&EntriesParser{})
	assert.Panics(t, func() { r.Register(&EntriesParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("1120", "1190")
	assert.Equal(t, []string{"entries", "bank"}, r.Formats())

	p, err := r.Get("bank")
	require.NoError(t, err)
	bank, ok := p.(*BankParser)
	require.True(t, ok)
	assert.Equal(t, "1120", bank.BankCode)
}

func TestPending(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(inbox, "processed"), 0o755))

	write := func(name, data string) {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte(data), 0o644))
	}
	write("march.CSV", "data")
	write("jan.csv", "data")
	write("empty.csv", "")
	write("notes.txt", "data")
	write(filepath.Join("processed", "old.csv"), "data")

	files, err := Pending(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "jan.csv", files[0].Name)
	assert.Equal(t, "march.CSV", files[1].Name)
	assert.Equal(t, filepath.Join(inbox, "jan.csv"), files[0].Path)
}

func TestPending_NoInbox(t *testing.T) {
	files, err := Pending(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "bank.csv"), []byte("data"), 0o644))

	files, err := Pending(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, Archive(dir, files[0]))

	assert.NoFileExists(t, filepath.Join(inbox, "bank.csv"))
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "bank.csv"))
}
