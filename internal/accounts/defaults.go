package accounts

import "github.com/cleared-dev/ledger/internal/model"

// DefaultChart returns the default chart of accounts for a business profile.
// Every balance starts at zero.
func DefaultChart(profile string) []*model.Account {
	switch profile {
	case "freight":
		return freightChart()
	default:
		return freightChart()
	}
}

func node(id, code, name string, typ model.AccountType, children ...*model.Account) *model.Account {
	return &model.Account{ID: id, Code: code, Name: name, Type: typ, Children: children}
}

func freightChart() []*model.Account {
	const (
		asset     = model.AccountTypeAsset
		liability = model.AccountTypeLiability
		equity    = model.AccountTypeEquity
		revenue   = model.AccountTypeRevenue
		expense   = model.AccountTypeExpense
	)
	return []*model.Account{
		node("1", "1000", "Assets", asset,
			node("1-1", "1100", "Current Assets", asset,
				node("1-1-1", "1110", "Cash on Hand", asset),
				node("1-1-2", "1120", "Banks", asset),
				node("1-1-3", "1130", "Accounts Receivable", asset),
				node("1-1-4", "1140", "Inventory", asset,
					node("1-1-4-1", "1150", "Inventory - Spare Parts", asset),
					node("1-1-4-2", "1160", "Inventory - Fuel", asset),
					node("1-1-4-3", "1170", "Inventory - Tires", asset),
					node("1-1-4-4", "1180", "Inventory - Lubricants", asset),
					node("1-1-4-5", "1190", "Inventory - Tools", asset),
				),
			),
			node("1-2", "1200", "Fixed Assets", asset,
				node("1-2-1", "1210", "Vehicles", asset),
				node("1-2-2", "1220", "Buildings", asset),
				node("1-2-3", "1230", "Equipment", asset),
				node("1-2-4", "1240", "Accumulated Depreciation", asset),
			),
		),
		node("2", "2000", "Liabilities", liability,
			node("2-1", "2100", "Current Liabilities", liability,
				node("2-1-1", "2110", "Accounts Payable", liability),
				node("2-1-2", "2120", "Accrued Expenses", liability),
				node("2-1-3", "2130", "Short-term Loans", liability),
			),
			node("2-2", "2200", "Long-term Liabilities", liability,
				node("2-2-1", "2210", "Long-term Loans", liability),
			),
		),
		node("3", "3000", "Equity", equity,
			node("3-1", "3100", "Capital", equity),
			node("3-2", "3200", "Retained Earnings", equity),
		),
		node("4", "4000", "Revenue", revenue,
			node("4-1", "4100", "Transport Services Revenue", revenue),
			node("4-2", "4200", "Vehicle Rental Revenue", revenue),
			node("4-3", "4300", "Other Revenue", revenue),
		),
		node("5", "5000", "Expenses", expense,
			node("5-1", "5100", "Operating Expenses", expense,
				node("5-1-1", "5110", "Transport Expenses", expense),
				node("5-1-2", "5120", "Insurance Expenses", expense),
				node("5-1-3", "5130", "Maintenance Expenses", expense),
				node("5-1-4", "5140", "Fuel Expenses", expense),
				node("5-1-5", "5150", "Parts Cost", expense),
			),
			node("5-2", "5200", "Administrative Expenses", expense,
				node("5-2-1", "5210", "Staff Salaries", expense),
				node("5-2-2", "5220", "Office Rent", expense),
				node("5-2-3", "5230", "Office Supplies", expense),
			),
			node("5-3", "5300", "Drivers Salaries", expense),
			node("5-4", "5400", "Vehicle Rental Expenses", expense),
			node("5-5", "5500", "General Administrative Expenses", expense),
			node("5-6", "5600", "Other Insurance Expenses", expense),
		),
	}
}
