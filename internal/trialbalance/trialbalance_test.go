package trialbalance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func cashAndRevenue() []*model.Account {
	return []*model.Account{
		{ID: "cash", Code: "1000", Name: "Cash", Type: model.AccountTypeAsset},
		{ID: "revenue", Code: "4000", Name: "Service Revenue", Type: model.AccountTypeRevenue},
	}
}

func sale(date, amount string) model.JournalEntry {
	return model.JournalEntry{
		ID:          "JE-" + date,
		Date:        day(date),
		Description: "Service sale",
		Lines: []model.JournalLine{
			{AccountID: "cash", Type: model.Debit, Amount: dec(amount)},
			{AccountID: "revenue", Type: model.Credit, Amount: dec(amount)},
		},
	}
}

func rowFor(t *testing.T, r Report, id string) Row {
	t.Helper()
	for _, row := range r.Rows {
		if row.AccountID == id {
			return row
		}
	}
	t.Fatalf("no row for %s", id)
	return Row{}
}

func TestAggregate_CashSaleBalances(t *testing.T) {
	r := Aggregate(cashAndRevenue(), []model.JournalEntry{sale("2025-01-15", "1000")}, period.Filter{}, Options{})

	cash := rowFor(t, r, "cash")
	assert.True(t, cash.DebitBalance.Equal(dec("1000")))
	assert.True(t, cash.CreditBalance.IsZero())

	rev := rowFor(t, r, "revenue")
	assert.True(t, rev.CreditBalance.Equal(dec("1000")))
	assert.True(t, rev.DebitBalance.IsZero())

	assert.True(t, r.IsBalanced)
	assert.False(t, r.Filtered)
	assert.True(t, r.Total.DebitBalance.Equal(dec("1000")))
	assert.True(t, r.Total.CreditBalance.Equal(dec("1000")))
}

func TestAggregate_AfterPostingFromBalances(t *testing.T) {
	e := sale("2025-01-15", "1000")
	posted, err := journal.Post(e, cashAndRevenue())
	require.NoError(t, err)

	// balances already carry the entry, so aggregate without the log
	r := Aggregate(posted, nil, period.Filter{}, Options{})
	assert.True(t, r.IsBalanced)
	assert.True(t, rowFor(t, r, "cash").DebitBalance.Equal(dec("1000")))
	assert.True(t, rowFor(t, r, "revenue").CreditBalance.Equal(dec("1000")))
}

func TestAggregate_MonthFilterExcludesPreviousMonth(t *testing.T) {
	f := period.Filter{Preset: period.Month, Now: func() time.Time { return day("2025-02-10") }}
	r := Aggregate(cashAndRevenue(), []model.JournalEntry{sale("2025-01-15", "1000")}, f, Options{})

	for _, row := range r.Rows {
		assert.True(t, row.TotalDebit.IsZero(), row.AccountID)
		assert.True(t, row.TotalCredit.IsZero(), row.AccountID)
		assert.True(t, row.NetBalance.Equal(row.OpeningBalance), row.AccountID)
	}
	assert.Equal(t, "month", r.Period)
}

func TestAggregate_NegativeBalanceMovesColumn(t *testing.T) {
	tree := cashAndRevenue()
	entries := []model.JournalEntry{{
		ID:   "refund",
		Date: day("2025-01-01"),
		Lines: []model.JournalLine{
			{AccountID: "revenue", Type: model.Debit, Amount: dec("300")},
			{AccountID: "cash", Type: model.Credit, Amount: dec("300")},
		},
	}}
	r := Aggregate(tree, entries, period.Filter{}, Options{})

	cash := rowFor(t, r, "cash")
	assert.True(t, cash.NetBalance.Equal(dec("-300")))
	assert.True(t, cash.DebitBalance.IsZero())
	assert.True(t, cash.CreditBalance.Equal(dec("300")))

	rev := rowFor(t, r, "revenue")
	assert.True(t, rev.DebitBalance.Equal(dec("300")))
	assert.True(t, r.IsBalanced)
}

func TestAggregate_Unbalanced(t *testing.T) {
	tree := cashAndRevenue()
	tree[0].Balance = dec("50")

	r := Aggregate(tree, nil, period.Filter{}, Options{})
	assert.False(t, r.IsBalanced)

	v := Check(tree, nil)
	assert.False(t, v.IsBalanced)
	assert.True(t, v.Difference.Equal(dec("50")))
	assert.Equal(t, 2, v.Accounts)
}

func TestAggregate_WithinTolerance(t *testing.T) {
	tree := cashAndRevenue()
	tree[0].Balance = dec("100.005")
	tree[1].Balance = dec("100")
	assert.True(t, Aggregate(tree, nil, period.Filter{}, Options{}).IsBalanced)
}

func TestAggregate_FiltersAndGroups(t *testing.T) {
	tree := []*model.Account{
		{ID: "assets", Code: "1000", Name: "Assets", Type: model.AccountTypeAsset, Children: []*model.Account{
			{ID: "cash", Code: "1110", Name: "Cash", Type: model.AccountTypeAsset},
			{ID: "bank", Code: "1120", Name: "Bank", Type: model.AccountTypeAsset},
		}},
		{ID: "capital", Code: "3100", Name: "Capital", Type: model.AccountTypeEquity, Balance: dec("500")},
		{ID: "revenue", Code: "4100", Name: "Service Revenue", Type: model.AccountTypeRevenue},
		{ID: "fuel", Code: "5140", Name: "Fuel", Type: model.AccountTypeExpense},
	}
	tree[0].Children[1].Balance = dec("500")
	entries := []model.JournalEntry{
		sale("2025-01-15", "1000"),
		{ID: "fuel", Date: day("2025-01-16"), Lines: []model.JournalLine{
			{AccountID: "fuel", Type: model.Debit, Amount: dec("200")},
			{AccountID: "cash", Type: model.Credit, Amount: dec("200")},
		}},
	}

	full := Aggregate(tree, entries, period.Filter{}, Options{})
	require.Len(t, full.Rows, 6)
	assert.True(t, full.IsBalanced)
	require.Len(t, full.Groups, 4)
	assert.Equal(t, model.AccountTypeAsset, full.Groups[0].Type)
	assert.Len(t, full.Groups[0].Rows, 3)
	assert.True(t, full.Groups[0].Subtotal.DebitBalance.Equal(dec("1300")))
	assert.Equal(t, model.AccountTypeExpense, full.Groups[3].Type)

	active := Aggregate(tree, entries, period.Filter{}, Options{OnlyWithActivity: true})
	assert.Len(t, active.Rows, 5, "parent assets has no activity")
	assert.True(t, active.Filtered)

	assets := Aggregate(tree, entries, period.Filter{}, Options{Type: model.AccountTypeAsset})
	assert.Len(t, assets.Rows, 3)
	assert.False(t, assets.IsBalanced)

	all := Aggregate(tree, entries, period.Filter{}, Options{Type: "all", Search: "FUEL"})
	require.Len(t, all.Rows, 1)
	assert.Equal(t, "fuel", all.Rows[0].AccountID)

	byCode := Aggregate(tree, entries, period.Filter{}, Options{Search: "31"})
	require.Len(t, byCode.Rows, 1)
	assert.Equal(t, "capital", byCode.Rows[0].AccountID)

	// health check ignores view filters
	assert.True(t, Check(tree, entries).IsBalanced)
}

func TestAggregate_BalancedEntriesKeepBooksBalanced(t *testing.T) {
	tree := []*model.Account{
		{ID: "cash", Code: "1110", Type: model.AccountTypeAsset, Balance: dec("700")},
		{ID: "loan", Code: "2200", Type: model.AccountTypeLiability, Balance: dec("200")},
		{ID: "capital", Code: "3100", Type: model.AccountTypeEquity, Balance: dec("500")},
		{ID: "revenue", Code: "4100", Type: model.AccountTypeRevenue},
		{ID: "fuel", Code: "5140", Type: model.AccountTypeExpense},
	}
	accounts := []string{"cash", "loan", "capital", "revenue", "fuel"}

	var entries []model.JournalEntry
	for i := 0; i < 40; i++ {
		debit := accounts[i%len(accounts)]
		credit := accounts[(i*3+1)%len(accounts)]
		if debit == credit {
			continue
		}
		amt := decimal.NewFromInt(int64(i*37%500 + 1)).Div(decimal.NewFromInt(4))
		entries = append(entries, model.JournalEntry{
			ID:   "e",
			Date: day("2025-01-01").AddDate(0, 0, i),
			Lines: []model.JournalLine{
				{AccountID: debit, Type: model.Debit, Amount: amt},
				{AccountID: credit, Type: model.Credit, Amount: amt},
			},
		})
	}
	require.NotEmpty(t, entries)

	assert.True(t, Check(tree, entries).IsBalanced)

	posted := tree
	for _, e := range entries {
		var err error
		posted, err = journal.Post(e, posted)
		require.NoError(t, err)
	}
	assert.True(t, Check(posted, nil).IsBalanced)
}

func TestAggregate_FilterNarrowsTotals(t *testing.T) {
	entries := []model.JournalEntry{sale("2025-01-15", "1000"), sale("2025-02-03", "250")}
	full := Aggregate(cashAndRevenue(), entries, period.Filter{}, Options{})
	narrow := Aggregate(cashAndRevenue(), entries, period.Custom(day("2025-02-01"), day("2025-02-28")), Options{})

	for i, row := range narrow.Rows {
		all := full.Rows[i]
		require.Equal(t, all.AccountID, row.AccountID)
		assert.True(t, row.TotalDebit.Add(row.TotalCredit).LessThanOrEqual(all.TotalDebit.Add(all.TotalCredit)))
	}
	assert.True(t, rowFor(t, narrow, "cash").TotalDebit.Equal(dec("250")))
}
