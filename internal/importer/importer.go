// Package importer turns CSV files into journal drafts keyed by account
// code. Drafts are posted through the journal service like any other entry.
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
)

// Line is one side of an imported entry.
type Line struct {
	Code   string
	Type   model.LineType
	Amount decimal.Decimal
}

// Entry is an imported entry whose accounts are still codes.
type Entry struct {
	Date        time.Time
	Reference   string
	Description string
	Lines       []Line
}

// Draft resolves the entry's account codes.
func (e Entry) Draft(resolve func(code string) (string, error)) (journal.Draft, error) {
	d := journal.Draft{Date: e.Date, Reference: e.Reference, Description: e.Description}
	for _, l := range e.Lines {
		accountID, err := resolve(l.Code)
		if err != nil {
			return journal.Draft{}, err
		}
		d.Lines = append(d.Lines, model.JournalLine{AccountID: accountID, Type: l.Type, Amount: l.Amount})
	}
	return d, nil
}

// Parser converts a CSV file into entries.
type Parser interface {
	Parse(r io.Reader) ([]Entry, error)
	Format() string
}

// ErrUnknownFormat is returned by Registry.Get.
var ErrUnknownFormat = errors.New("unknown import format")

// Registry holds parsers by format name, in registration order.
type Registry struct {
	order []Parser
	index map[string]int
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.index[key]; ok {
		panic("importer: format registered twice: " + key)
	}
	r.index[key] = len(r.order)
	r.order = append(r.order, p)
}

// Get looks up a parser, ignoring case.
func (r *Registry) Get(format string) (Parser, error) {
	i, ok := r.index[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return r.order[i], nil
}

// Formats lists registered format names.
func (r *Registry) Formats() []string {
	names := make([]string, len(r.order))
	for i, p := range r.order {
		names[i] = p.Format()
	}
	return names
}

// DefaultRegistry returns a registry with the entries parser and a bank
// parser posting against bankCode with contraCode as the other side.
func DefaultRegistry(bankCode, contraCode string) *Registry {
	r := NewRegistry()
	r.Register(&EntriesParser{})
	r.Register(&BankParser{BankCode: bankCode, ContraCode: contraCode})
	return r
}

// Drop folders, relative to the ledger directory.
const (
	Inbox     = "import"
	Processed = "import/processed"
)

// File is a CSV waiting in the inbox.
type File struct {
	Name string
	Path string
}

// Pending lists non-empty CSV files in <root>/import/, sorted by name.
// A missing inbox yields no files.
func Pending(root string) ([]File, error) {
	dir := filepath.Join(root, Inbox)
	dirents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []File
	for _, d := range dirents {
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", d.Name(), err)
		}
		if info.Size() == 0 {
			continue
		}
		files = append(files, File{Name: d.Name(), Path: filepath.Join(dir, d.Name())})
	}
	return files, nil
}

// Archive moves an imported file into import/processed/.
func Archive(root string, f File) error {
	dst := filepath.Join(root, Processed)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := os.Rename(f.Path, filepath.Join(dst, f.Name)); err != nil {
		return fmt.Errorf("archiving %s: %w", f.Name, err)
	}
	return nil
}
