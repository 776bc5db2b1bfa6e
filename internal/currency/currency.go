// Package currency renders exact decimal amounts as localized currency
// strings. Formatting is presentation only; computations never round.
package currency

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Default is the currency used when none is configured.
const Default = "EGP"

// Formatter renders amounts in one currency with a fixed number of decimals.
type Formatter struct {
	code string
	fmt  *money.Formatter
	frac int32
}

// New returns a formatter for an ISO 4217 code. decimals < 0 uses the
// currency's own fraction digits.
func New(code string, decimals int) (Formatter, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return Formatter{}, fmt.Errorf("unknown currency %q", code)
	}
	if decimals < 0 {
		decimals = cur.Fraction
	}
	return Formatter{
		code: cur.Code,
		fmt:  money.NewFormatter(decimals, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template),
		frac: int32(decimals),
	}, nil
}

// MustNew is like New but panics on an unknown code.
func MustNew(code string, decimals int) Formatter {
	f, err := New(code, decimals)
	if err != nil {
		panic(err.Error())
	}
	return f
}

// Code returns the ISO currency code.
func (f Formatter) Code() string {
	return f.code
}

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// Format renders d, rounded half away from zero to the formatter's decimals.
// Amounts too large for int64 minor units are rendered as "<code> <amount>".
func (f Formatter) Format(d decimal.Decimal) string {
	minor := d.Round(f.frac).Shift(f.frac)
	if minor.Abs().GreaterThan(maxMinor) {
		return f.code + " " + d.StringFixed(f.frac)
	}
	return f.fmt.Format(minor.IntPart())
}

// Plain renders d with a fixed number of decimals and no symbol.
func Plain(decimals int) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string {
		return d.StringFixed(int32(decimals))
	}
}
