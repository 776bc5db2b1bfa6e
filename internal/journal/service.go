package journal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service is the single writer of the ledger. It caches the store's contents
// and serializes every mutation so that validation always sees the balances
// the posting will be applied to.
type Service struct {
	mu      sync.RWMutex
	store   store.Store
	logger  *slog.Logger
	now     func() time.Time
	tree    []*model.Account
	index   *accounts.Service
	entries []model.JournalEntry
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService loads the store and builds the account index.
func NewService(st store.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	tree, entries, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	s.setTree(tree)
	s.entries = entries
	return s, nil
}

func (s *Service) setTree(tree []*model.Account) {
	s.tree = tree
	s.index = accounts.NewService(tree)
}

// Snapshot returns copies of the account tree and journal for read-only
// projections.
func (s *Service) Snapshot() ([]*model.Account, []model.JournalEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneTree(s.tree), append([]model.JournalEntry(nil), s.entries...)
}

// Books returns the opening chart, with every posted entry rewound, and the
// journal. Ledger and trial balance views project from these.
func (s *Service) Books() ([]*model.Account, []model.JournalEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Rewind(s.tree, s.entries), append([]model.JournalEntry(nil), s.entries...)
}

// Draft is a journal entry as submitted by a user.
type Draft struct {
	Date        time.Time
	Reference   string
	Description string
	Lines       []model.JournalLine
}

// Post validates the draft against the current chart, applies it to the
// account balances and persists both in one store commit. Nothing changes if
// any step fails.
func (s *Service) Post(d Draft) (model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.prepare(d, s.entryIDs())
	if err != nil {
		return model.JournalEntry{}, err
	}
	if err := s.apply(entry); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

// PostAll posts drafts in order, but only after every one of them has been
// validated against the chart; a single rejected draft posts none. Entries
// committed before a storage failure stay posted and are returned with the
// error.
func (s *Service) PostAll(drafts []Draft) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.entryIDs()
	batch := make([]model.JournalEntry, 0, len(drafts))
	for i, d := range drafts {
		entry, err := s.prepare(d, ids)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		ids = append(ids, entry.ID)
		batch = append(batch, entry)
	}

	for i, entry := range batch {
		if err := s.apply(entry); err != nil {
			return batch[:i], err
		}
	}
	return batch, nil
}

// prepare numbers and validates a draft. ids holds the entry IDs already
// taken, including earlier drafts of the same batch.
func (s *Service) prepare(d Draft, ids []string) (model.JournalEntry, error) {
	now := s.now()
	date := d.Date
	if date.IsZero() {
		date = now
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	entryID := id.FormatEntryID(date.Year(), int(date.Month()), id.NextSeq(ids, date.Year(), int(date.Month())))
	ref := strings.TrimSpace(d.Reference)
	if ref == "" {
		ref = entryID
	}

	res, err := Validate(model.JournalEntry{
		ID:          entryID,
		Date:        date,
		Reference:   ref,
		Description: strings.TrimSpace(d.Description),
		Lines:       append([]model.JournalLine(nil), d.Lines...),
		CreatedAt:   now.UTC(),
	}, s.index)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return res.Entry, nil
}

// apply posts a validated entry to the balances and commits it.
func (s *Service) apply(entry model.JournalEntry) error {
	updated, err := Post(entry, s.tree)
	if err != nil {
		// Validation ran against the same index, so this is a defect.
		s.logger.Error("posting validated entry failed", "entry", entry.ID, "error", err)
		return err
	}

	if err := s.store.Commit(entry, updated); err != nil {
		return fmt.Errorf("committing %s: %w", entry.ID, err)
	}

	s.setTree(updated)
	s.entries = append(s.entries, entry)
	s.logger.Info("posted journal entry",
		"entry", entry.ID,
		"reference", entry.Reference,
		"lines", len(entry.Lines),
		"total", entry.TotalAmount.StringFixed(2),
	)
	return nil
}

// AddAccount inserts a new account into the chart and saves it.
func (s *Service) AddAccount(p accounts.NewAccount) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, acct, err := accounts.AddAccount(s.tree, p)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAccounts(updated); err != nil {
		return nil, fmt.Errorf("saving accounts: %w", err)
	}
	s.setTree(updated)
	s.logger.Info("added account", "id", acct.ID, "code", acct.Code, "type", acct.Type)
	return acct.Clone(), nil
}

// Seed saves tree as the chart of accounts if the store has none yet. It
// reports whether the chart was written.
func (s *Service) Seed(tree []*model.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tree) > 0 {
		return false, nil
	}
	if err := s.store.SaveAccounts(tree); err != nil {
		return false, fmt.Errorf("saving accounts: %w", err)
	}
	s.setTree(model.CloneTree(tree))
	return true, nil
}

// ResolveCode maps an account code to its ID.
func (s *Service) ResolveCode(code string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.index.GetByCode(code)
	if !ok {
		return "", fmt.Errorf("%w: code %s", ErrMissingAccount, code)
	}
	return acct.ID, nil
}

// Account returns a copy of an account by ID.
func (s *Service) Account(accountID string) (*model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.index.Get(accountID)
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Entries returns the journal in append order.
func (s *Service) Entries() []model.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.JournalEntry(nil), s.entries...)
}

func (s *Service) entryIDs() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// IsValidationError reports whether err is a user-input validation failure
// rather than an internal or storage error.
func IsValidationError(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
