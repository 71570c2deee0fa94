// Package render turns dashboard views into display formats: money strings,
// PNG charts and text tables.
package render

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency formats an amount as US dollars with thousands separators, e.g. "$1,234.56".
func Currency(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprintf("$%.2f", f)
}

// CurrencyTick formats a chart axis value without cents, e.g. "$1,235".
func CurrencyTick(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

// Count formats an integer with thousands separators, e.g. "1,234".
func Count(n int) string {
	return printer.Sprintf("%d", n)
}
