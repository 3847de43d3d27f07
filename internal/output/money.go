// Package output renders engine results for the console and for export.
package output

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/rates"
)

// MoneyFormatter renders decimal amounts as localized currency strings.
// Amounts are assumed to be in the base currency and are converted through
// the rate table when a different display currency is selected.
type MoneyFormatter struct {
	base     string
	display  string
	table    rates.Table
	currency *money.Currency
}

// NewMoneyFormatter builds a formatter that shows base-currency amounts in
// the display currency. A nil table disables conversion. A display code
// go-money does not know would render every amount with an empty template,
// so unknown codes fall back to the base currency, and an unknown base to
// EUR.
func NewMoneyFormatter(base, display string, table rates.Table) *MoneyFormatter {
	cur := money.GetCurrency(display)
	if cur == nil {
		display = base
		cur = money.GetCurrency(base)
	}
	if cur == nil {
		display = money.EUR
		cur = money.GetCurrency(money.EUR)
	}
	return &MoneyFormatter{base: base, display: display, table: table, currency: cur}
}

// Format converts and renders one amount, rounding to the currency's minor
// unit.
func (f *MoneyFormatter) Format(v decimal.Decimal) string {
	if f.table != nil {
		v = f.table.Convert(v, f.base, f.display)
	}
	minor := v.Shift(int32(f.currency.Fraction)).Round(0)
	return f.currency.Formatter().Format(minor.IntPart())
}
