package accounts

import "github.com/cleared-dev/ledger/internal/model"

// Node is an account together with its depth in the chart of accounts.
type Node struct {
	Account *model.Account
	Level   int
}

// Flatten walks the forest depth-first, parents before children, keeping
// sibling order. Report ordering everywhere derives from this.
func Flatten(tree []*model.Account) []Node {
	var out []Node
	var walk func(list []*model.Account, level int)
	walk = func(list []*model.Account, level int) {
		for _, a := range list {
			out = append(out, Node{Account: a, Level: level})
			walk(a.Children, level+1)
		}
	}
	walk(tree, 0)
	return out
}
