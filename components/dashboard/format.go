package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumberFormatter renders metric values for display in a locale.
type NumberFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewNumberFormatter builds a formatter for locale and an ISO 4217 currency
// code. Unknown locales fall back to English, unknown codes to USD.
func NewNumberFormatter(locale, code string) *NumberFormatter {
	tag := language.English
	if locale = strings.TrimSpace(locale); locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		unit = currency.USD
	}
	printer := message.NewPrinter(tag)
	return &NumberFormatter{
		printer: printer,
		symbol:  printer.Sprint(currency.NarrowSymbol(unit)),
	}
}

// Count formats an integer with digit grouping.
func (f *NumberFormatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Number formats a decimal, keeping two fraction digits when it has any.
func (f *NumberFormatter) Number(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%.2f", d.InexactFloat64())
}

// Currency formats an amount with the currency symbol.
func (f *NumberFormatter) Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + f.symbol + f.Number(d)
}
