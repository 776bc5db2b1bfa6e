package journal

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// TemplateLine is one pre-filled side of a template, keyed by account code.
type TemplateLine struct {
	Code string
	Type model.LineType
}

// Template is a two-sided entry shape for common freight transactions.
type Template struct {
	Name        string
	Description string
	Lines       []TemplateLine
}

// Templates are keyed by name and use codes from the default chart.
var Templates = map[string]Template{
	"vehicle_rental": {
		Name:        "vehicle_rental",
		Description: "Vehicle rental expense",
		Lines:       []TemplateLine{{"5400", model.Debit}, {"1110", model.Credit}},
	},
	"service_revenue": {
		Name:        "service_revenue",
		Description: "Transport service revenue",
		Lines:       []TemplateLine{{"1130", model.Debit}, {"4100", model.Credit}},
	},
	"fuel_expense": {
		Name:        "fuel_expense",
		Description: "Fuel expense",
		Lines:       []TemplateLine{{"5140", model.Debit}, {"1110", model.Credit}},
	},
}

// TemplateNames returns the template names sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for n := range Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Expand builds the journal lines of the template for amount, resolving codes with resolve.
func (t Template) Expand(amount decimal.Decimal, resolve func(code string) (string, error)) ([]model.JournalLine, error) {
	lines := make([]model.JournalLine, 0, len(t.Lines))
	for _, tl := range t.Lines {
		accountID, err := resolve(tl.Code)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Name, err)
		}
		lines = append(lines, model.JournalLine{AccountID: accountID, Type: tl.Type, Amount: amount})
	}
	return lines, nil
}
