package trialbalance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

func TestSummarize(t *testing.T) {
	tree := append(cashAndRevenue(), &model.Account{ID: "fuel", Code: "5140", Name: "Fuel", Type: model.AccountTypeExpense})
	entries := []model.JournalEntry{
		sale("2025-01-15", "1000"),
		{ID: "fuel", Date: day("2025-01-16"), Lines: []model.JournalLine{
			{AccountID: "fuel", Type: model.Debit, Amount: dec("333")},
			{AccountID: "cash", Type: model.Credit, Amount: dec("333")},
		}},
	}

	s := Summarize(tree, entries, period.Filter{})
	assert.True(t, s.TotalRevenue.Equal(dec("1000")))
	assert.True(t, s.TotalExpenses.Equal(dec("333")))
	assert.True(t, s.NetProfit.Equal(dec("667")))
	assert.True(t, s.ProfitMargin.Equal(dec("66.7")))
}

func TestSummarize_NoRevenue(t *testing.T) {
	s := Summarize(cashAndRevenue(), nil, period.Filter{})
	assert.True(t, s.TotalRevenue.IsZero())
	assert.True(t, s.ProfitMargin.IsZero())
}
