package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in report order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether the type increases on debit.
// Assets and expenses are debit-normal; everything else is credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is a node in the chart of accounts. An account owns its children.
type Account struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"` // opening balance for the current period
	Description string          `json:"description,omitempty"`
	Children    []*Account      `json:"children,omitempty"`
}

// Clone returns a deep copy of the account and its subtree.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if len(a.Children) > 0 {
		c.Children = make([]*Account, len(a.Children))
		for i, child := range a.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// CloneTree deep-copies a forest of accounts.
func CloneTree(tree []*Account) []*Account {
	if tree == nil {
		return nil
	}
	out := make([]*Account, len(tree))
	for i, a := range tree {
		out[i] = a.Clone()
	}
	return out
}
