// Package boltstore keeps the ledger in a single bbolt database file.
package boltstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Bucket names.
const (
	BucketAccounts = "accounts"
	BucketJournal  = "journal_entries"
)

var treeKey = []byte("tree")

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database and initializes buckets. It fails
// after a second if another process holds the file lock.
func Open(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketAccounts, BucketJournal} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the account tree and every entry in sequence order.
func (s *Store) Load() ([]*model.Account, []model.JournalEntry, error) {
	var tree []*model.Account
	var entries []model.JournalEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(BucketAccounts)).Get(treeKey); data != nil {
			if err := json.Unmarshal(data, &tree); err != nil {
				return fmt.Errorf("failed to unmarshal accounts: %w", err)
			}
		}
		return tx.Bucket([]byte(BucketJournal)).ForEach(func(k, v []byte) error {
			var e model.JournalEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return tree, entries, nil
}

// SaveAccounts replaces the stored account tree.
func (s *Store) SaveAccounts(tree []*model.Account) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putTree(tx, tree)
	})
}

// AppendEntry stores the entry under the next journal sequence.
func (s *Store) AppendEntry(entry model.JournalEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putEntry(tx, entry)
	})
}

// Commit appends the entry and saves the tree in one transaction.
func (s *Store) Commit(entry model.JournalEntry, tree []*model.Account) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := putEntry(tx, entry); err != nil {
			return err
		}
		return putTree(tx, tree)
	})
}

func putTree(tx *bolt.Tx, tree []*model.Account) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	return tx.Bucket([]byte(BucketAccounts)).Put(treeKey, data)
}

func putEntry(tx *bolt.Tx, entry model.JournalEntry) error {
	b := tx.Bucket([]byte(BucketJournal))
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry %s: %w", entry.ID, err)
	}
	return b.Put(itob(seq), data)
}

// itob encodes a sequence so keys sort in append order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
