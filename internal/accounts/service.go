package accounts

import "github.com/cleared-dev/ledger/internal/model"

// Service provides in-memory lookup over the chart of accounts. The tree is
// kept for ownership and display; lookups go through the side indexes built
// once in NewService.
type Service struct {
	tree   []*model.Account
	flat   []Node
	byID   map[string]*model.Account
	byCode map[string]*model.Account
}

// NewService indexes a forest of accounts.
func NewService(tree []*model.Account) *Service {
	flat := Flatten(tree)
	byID := make(map[string]*model.Account, len(flat))
	byCode := make(map[string]*model.Account, len(flat))
	for _, n := range flat {
		byID[n.Account.ID] = n.Account
		byCode[n.Account.Code] = n.Account
	}
	return &Service{tree: tree, flat: flat, byID: byID, byCode: byCode}
}

// Tree returns the forest the service was built from.
func (s *Service) Tree() []*model.Account {
	return s.tree
}

// All returns all accounts in chart order.
func (s *Service) All() []Node {
	return s.flat
}

// Get returns an account by ID.
func (s *Service) Get(id string) (*model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by its display code.
func (s *Service) GetByCode(code string) (*model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// IDs returns the set of known account IDs.
func (s *Service) IDs() map[string]bool {
	ids := make(map[string]bool, len(s.byID))
	for id := range s.byID {
		ids[id] = true
	}
	return ids
}

// ByType returns all accounts of the given type in chart order.
func (s *Service) ByType(accountType model.AccountType) []*model.Account {
	var result []*model.Account
	for _, n := range s.flat {
		if n.Account.Type == accountType {
			result = append(result, n.Account)
		}
	}
	return result
}
