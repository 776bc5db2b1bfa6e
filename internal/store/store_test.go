package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
)

func TestMemory_CopiesState(t *testing.T) {
	tree := []*model.Account{{ID: "cash", Code: "1000", Type: model.AccountTypeAsset}}
	m := NewMemory(tree, nil)

	tree[0].Name = "mutated after seeding"
	got, entries, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, got[0].Name)
	assert.Empty(t, entries)

	got[0].Balance = decimal.NewFromInt(10)
	again, _, err := m.Load()
	require.NoError(t, err)
	assert.True(t, again[0].Balance.IsZero())
}

func TestMemory_Commit(t *testing.T) {
	m := NewMemory(nil, nil)
	tree := []*model.Account{{ID: "cash", Balance: decimal.NewFromInt(3)}}
	entry := model.JournalEntry{ID: "JE-2025-01-001", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, m.Commit(entry, tree))
	require.NoError(t, m.AppendEntry(model.JournalEntry{ID: "JE-2025-01-002"}))

	got, entries, err := m.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "JE-2025-01-001", entries[0].ID)
	assert.True(t, got[0].Balance.Equal(decimal.NewFromInt(3)))
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory(nil, nil)
	require.NoError(t, m.Close())

	_, _, err := m.Load()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.SaveAccounts(nil), ErrClosed)
	assert.ErrorIs(t, m.AppendEntry(model.JournalEntry{}), ErrClosed)
}
