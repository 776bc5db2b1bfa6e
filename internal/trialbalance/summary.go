package trialbalance

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

// Summary is the dashboard's profit overview for a period.
type Summary struct {
	Period        string          `json:"period"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	// ProfitMargin is a percentage with one decimal, zero without revenue.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

var hundred = decimal.NewFromInt(100)

// Summarize computes revenue and expenses as the period movement of revenue
// and expense accounts.
func Summarize(tree []*model.Account, entries []model.JournalEntry, filter period.Filter) Summary {
	r := Aggregate(tree, entries, filter, Options{})
	s := Summary{
		Period:        r.Period,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		ProfitMargin:  decimal.Zero,
	}
	for _, row := range r.Rows {
		switch row.Type {
		case model.AccountTypeRevenue:
			s.TotalRevenue = s.TotalRevenue.Add(row.TotalCredit.Sub(row.TotalDebit))
		case model.AccountTypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(row.TotalDebit.Sub(row.TotalCredit))
		}
	}
	s.NetProfit = s.TotalRevenue.Sub(s.TotalExpenses)
	if s.TotalRevenue.IsPositive() {
		s.ProfitMargin = s.NetProfit.Div(s.TotalRevenue).Mul(hundred).Round(1)
	}
	return s
}
