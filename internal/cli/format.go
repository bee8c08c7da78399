package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/model"
)

// DefaultCurrency is used when rendering amounts.
const DefaultCurrency = money.USD

// FormatDecimal renders d as a currency amount, e.g. "$1,234.50".
func FormatDecimal(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	m := money.New(0, currency)
	minor := d.Shift(int32(m.Currency().Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// FormatAmount renders an optional amount; unset renders as "-".
func FormatAmount(a model.Amount, currency string) string {
	v, ok := a.Value()
	if !ok {
		return "-"
	}
	return FormatDecimal(v, currency)
}
