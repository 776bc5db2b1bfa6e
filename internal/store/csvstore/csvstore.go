// Package csvstore keeps the ledger as plain CSV files under a directory:
// accounts/chart-of-accounts.csv and journal/journal.csv.
package csvstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

const (
	accountsFile = "accounts/chart-of-accounts.csv"
	journalFile  = "journal/journal.csv"
)

// Store is a CSV-directory store.
type Store struct {
	root string
	mu   sync.Mutex
}

var _ store.Store = (*Store)(nil)

// Open returns a store rooted at dir. Files are created lazily.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Load reads both files. Missing files yield empty collections.
func (s *Store) Load() ([]*model.Account, []model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.readAccounts()
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.readJournal()
	if err != nil {
		return nil, nil, err
	}
	return tree, entries, nil
}

// SaveAccounts rewrites chart-of-accounts.csv via a temp file and rename.
func (s *Store) SaveAccounts(tree []*model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAccounts(tree)
}

// AppendEntry appends the entry's lines to journal.csv.
func (s *Store) AppendEntry(entry model.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.appendJournal(entry)
	return err
}

// Commit appends the entry and then rewrites the accounts. If the accounts
// cannot be written the journal is truncated back to its previous length,
// or removed if this append created it.
func (s *Store) Commit(entry model.JournalEntry, tree []*model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevSize, err := s.appendJournal(entry)
	if err != nil {
		return err
	}
	if err := s.writeAccounts(tree); err != nil {
		path := filepath.Join(s.root, journalFile)
		rollback := func() error { return os.Truncate(path, prevSize) }
		if prevSize == 0 {
			rollback = func() error { return os.Remove(path) }
		}
		if terr := rollback(); terr != nil {
			return fmt.Errorf("saving accounts: %w (rollback failed: %v)", err, terr)
		}
		return fmt.Errorf("saving accounts: %w", err)
	}
	return nil
}

// Close is a no-op; files are not held open between calls.
func (s *Store) Close() error {
	return nil
}

func (s *Store) readAccounts() ([]*model.Account, error) {
	path := filepath.Join(s.root, accountsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	tree, err := accounts.ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return tree, nil
}

func (s *Store) readJournal() ([]model.JournalEntry, error) {
	path := filepath.Join(s.root, journalFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := journal.ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

func (s *Store) writeAccounts(tree []*model.Account) error {
	path := filepath.Join(s.root, accountsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.csv")
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := accounts.WriteAccounts(tmp, tree); err != nil {
		tmp.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing chart of accounts: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing chart of accounts: %w", err)
	}
	return nil
}

// appendJournal returns the file size before the append.
func (s *Store) appendJournal(entry model.JournalEntry) (int64, error) {
	path := filepath.Join(s.root, journalFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating journal dir: %w", err)
	}

	var prevSize int64
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return 0, fmt.Errorf("stat journal: %w", err)
	default:
		prevSize = info.Size()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	// An empty file, new or truncated, has no header yet.
	if prevSize == 0 {
		if _, err := fmt.Fprintln(f, journal.Header); err != nil {
			return 0, fmt.Errorf("writing header: %w", err)
		}
	}

	if err := journal.AppendEntries(f, []model.JournalEntry{entry}); err != nil {
		return 0, fmt.Errorf("appending entry %s: %w", entry.ID, err)
	}
	return prevSize, nil
}
