package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

var (
	// ErrDuplicateCode is returned when an account code is already in use.
	ErrDuplicateCode = errors.New("account code already exists")
	// ErrParentNotFound is returned when the requested parent does not exist.
	ErrParentNotFound = errors.New("parent account not found")
	// ErrInvalidAccount is returned for missing or malformed account fields.
	ErrInvalidAccount = errors.New("invalid account")
)

// NewAccount holds the user-supplied fields for a new chart entry.
type NewAccount struct {
	Code           string
	Name           string
	Type           model.AccountType
	ParentID       string // empty = top-level
	OpeningBalance decimal.Decimal
	Description    string
}

// AddAccount returns a copy of tree with the new account inserted, either as
// the last child of ParentID or as a new root. The input tree is not modified.
func AddAccount(tree []*model.Account, p NewAccount) ([]*model.Account, *model.Account, error) {
	code := strings.TrimSpace(p.Code)
	name := strings.TrimSpace(p.Name)
	if code == "" || name == "" {
		return nil, nil, fmt.Errorf("%w: code and name are required", ErrInvalidAccount)
	}
	if !p.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, p.Type)
	}

	out := model.CloneTree(tree)
	svc := NewService(out)
	if _, taken := svc.GetByCode(code); taken {
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	acct := &model.Account{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        name,
		Type:        p.Type,
		Balance:     p.OpeningBalance,
		Description: p.Description,
	}

	if p.ParentID == "" {
		return append(out, acct), acct, nil
	}

	parent, ok := svc.Get(p.ParentID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrParentNotFound, p.ParentID)
	}
	// A child always shares its parent's sign convention.
	if parent.Type != p.Type {
		return nil, nil, fmt.Errorf("%w: type %s does not match parent %s (%s)", ErrInvalidAccount, p.Type, parent.Code, parent.Type)
	}
	parent.Children = append(parent.Children, acct)
	return out, acct, nil
}
