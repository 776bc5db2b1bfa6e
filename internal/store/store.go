// Package store defines the persistence boundary of the ledger: a chart of
// accounts and an append-only journal.
package store

import (
	"errors"
	"sync"

	"github.com/cleared-dev/ledger/internal/model"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store holds the two ledger collections.
type Store interface {
	// Load returns the account forest and the journal in append order.
	Load() ([]*model.Account, []model.JournalEntry, error)
	// SaveAccounts replaces the persisted account forest.
	SaveAccounts(tree []*model.Account) error
	// AppendEntry adds an entry to the end of the journal.
	AppendEntry(entry model.JournalEntry) error
	// Commit appends entry and saves tree as one unit.
	Commit(entry model.JournalEntry, tree []*model.Account) error
	Close() error
}

// Memory is an in-process Store. It copies on every read and write so callers
// never share state with it.
type Memory struct {
	mu      sync.RWMutex
	tree    []*model.Account
	entries []model.JournalEntry
	closed  bool
}

// NewMemory creates a Memory store seeded with tree and entries.
func NewMemory(tree []*model.Account, entries []model.JournalEntry) *Memory {
	return &Memory{
		tree:    model.CloneTree(tree),
		entries: append([]model.JournalEntry(nil), entries...),
	}
}

func (m *Memory) Load() ([]*model.Account, []model.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, nil, ErrClosed
	}
	return model.CloneTree(m.tree), append([]model.JournalEntry(nil), m.entries...), nil
}

func (m *Memory) SaveAccounts(tree []*model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.tree = model.CloneTree(tree)
	return nil
}

func (m *Memory) AppendEntry(entry model.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *Memory) Commit(entry model.JournalEntry, tree []*model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, entry)
	m.tree = model.CloneTree(tree)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
