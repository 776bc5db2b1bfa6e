package journal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory(smallChart(), nil)
	clock := func() time.Time { return time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC) }
	svc, err := NewService(st, WithClock(clock))
	require.NoError(t, err)
	return svc, st
}

func TestServicePost(t *testing.T) {
	svc, st := newTestService(t)

	entry, err := svc.Post(Draft{
		Date:        date(2025, 1, 15),
		Description: "Transport service, Giza",
		Lines:       []model.JournalLine{line("cash", model.Debit, "1000"), line("revenue", model.Credit, "1000")},
	})
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-01-001", entry.ID)
	assert.Equal(t, "JE-2025-01-001", entry.Reference, "empty reference defaults to the entry ID")
	assert.True(t, entry.TotalAmount.Equal(dec("1000")))
	assert.Equal(t, time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC), entry.CreatedAt)

	tree, entries, err := st.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, balanceOf(t, tree, "cash").Equal(dec("1000")))

	acct, ok := svc.Account("revenue")
	require.True(t, ok)
	assert.True(t, acct.Balance.Equal(dec("1000")))
}

func TestServicePost_SequencePerMonth(t *testing.T) {
	svc, _ := newTestService(t)
	lines := []model.JournalLine{line("fuel", model.Debit, "5"), line("cash", model.Credit, "5")}

	ids := []string{}
	for _, d := range []time.Time{date(2025, 1, 2), date(2025, 1, 20), date(2025, 2, 1)} {
		e, err := svc.Post(Draft{Date: d, Reference: "R", Lines: lines})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"JE-2025-01-001", "JE-2025-01-002", "JE-2025-02-001"}, ids)
}

func TestServicePost_DefaultsDateToToday(t *testing.T) {
	svc, _ := newTestService(t)
	e, err := svc.Post(Draft{Lines: []model.JournalLine{line("fuel", model.Debit, "5"), line("cash", model.Credit, "5")}})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 9), e.Date)
}

func TestServicePost_ValidationFailureWritesNothing(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Post(Draft{
		Date:  date(2025, 1, 15),
		Lines: []model.JournalLine{line("cash", model.Debit, "1000"), line("revenue", model.Credit, "900")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalanced)
	assert.True(t, IsValidationError(err))

	tree, entries, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.True(t, balanceOf(t, tree, "cash").IsZero())
	assert.Empty(t, svc.Entries())
}

type failingStore struct {
	*store.Memory
}

func (failingStore) Commit(model.JournalEntry, []*model.Account) error {
	return errors.New("disk full")
}

func TestServicePost_CommitFailureKeepsState(t *testing.T) {
	svc, err := NewService(failingStore{store.NewMemory(smallChart(), nil)})
	require.NoError(t, err)

	_, err = svc.Post(Draft{
		Date:  date(2025, 1, 15),
		Lines: []model.JournalLine{line("cash", model.Debit, "10"), line("revenue", model.Credit, "10")},
	})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))

	acct, _ := svc.Account("cash")
	assert.True(t, acct.Balance.IsZero())
	assert.Empty(t, svc.Entries())
}

func TestServicePostAll(t *testing.T) {
	svc, st := newTestService(t)

	posted, err := svc.PostAll([]Draft{
		{Date: date(2025, 1, 2), Lines: []model.JournalLine{line("cash", model.Debit, "100"), line("revenue", model.Credit, "100")}},
		{Date: date(2025, 1, 3), Lines: []model.JournalLine{line("fuel", model.Debit, "40"), line("cash", model.Credit, "40")}},
	})
	require.NoError(t, err)
	require.Len(t, posted, 2)
	assert.Equal(t, "JE-2025-01-001", posted[0].ID)
	assert.Equal(t, "JE-2025-01-002", posted[1].ID)

	tree, entries, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.True(t, balanceOf(t, tree, "cash").Equal(dec("60")))
}

func TestServicePostAll_RejectedDraftPostsNone(t *testing.T) {
	svc, st := newTestService(t)

	posted, err := svc.PostAll([]Draft{
		{Date: date(2025, 1, 2), Lines: []model.JournalLine{line("cash", model.Debit, "100"), line("revenue", model.Credit, "100")}},
		{Date: date(2025, 1, 3), Lines: []model.JournalLine{line("fuel", model.Debit, "40"), line("cash", model.Credit, "30")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalanced)
	assert.ErrorContains(t, err, "entry 2")
	assert.True(t, IsValidationError(err))
	assert.Empty(t, posted)

	tree, entries, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.True(t, balanceOf(t, tree, "cash").IsZero())
	assert.Empty(t, svc.Entries())
}

func TestServicePost_Concurrent(t *testing.T) {
	svc, st := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Post(Draft{
				Date:  date(2025, 4, 1),
				Lines: []model.JournalLine{line("cash", model.Debit, "10"), line("revenue", model.Credit, "10")},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tree, entries, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	assert.True(t, balanceOf(t, tree, "cash").Equal(dec("200")))

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestServiceAddAccount(t *testing.T) {
	svc, st := newTestService(t)

	acct, err := svc.AddAccount(accounts.NewAccount{Code: "1120", Name: "Banks", Type: model.AccountTypeAsset, ParentID: "assets"})
	require.NoError(t, err)

	id, err := svc.ResolveCode("1120")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, id)

	tree, _, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, accounts.Flatten(tree), 6)

	_, err = svc.AddAccount(accounts.NewAccount{Code: "1120", Name: "Again", Type: model.AccountTypeAsset})
	assert.ErrorIs(t, err, accounts.ErrDuplicateCode)
}

func TestServiceSeed(t *testing.T) {
	st := store.NewMemory(nil, nil)
	svc, err := NewService(st)
	require.NoError(t, err)

	seeded, err := svc.Seed(accounts.DefaultChart("freight"))
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = svc.Seed(smallChart())
	require.NoError(t, err)
	assert.False(t, seeded, "existing chart is kept")

	tree, _ := svc.Snapshot()
	assert.Len(t, accounts.Flatten(tree), 45)
}

func TestServiceResolveCode_Unknown(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ResolveCode("0000")
	assert.ErrorIs(t, err, ErrMissingAccount)
}

func TestServiceSnapshotIsCopy(t *testing.T) {
	svc, _ := newTestService(t)
	tree, _ := svc.Snapshot()
	tree[0].Name = "changed"

	again, _ := svc.Snapshot()
	assert.Equal(t, "Assets", again[0].Name)
}

func TestServiceBooks(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Post(Draft{
		Date:  date(2025, 1, 15),
		Lines: []model.JournalLine{line("cash", model.Debit, "1000"), line("revenue", model.Credit, "1000")},
	})
	require.NoError(t, err)

	current, _ := svc.Snapshot()
	assert.True(t, balanceOf(t, current, "cash").Equal(dec("1000")))

	opening, entries := svc.Books()
	require.Len(t, entries, 1)
	assert.True(t, balanceOf(t, opening, "cash").IsZero())
}
