package progress

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The English printer groups digits by three with commas, which is the only
// grouping the display uses regardless of the currency.
var numberPrinter = message.NewPrinter(language.English)

// FormatNumber renders n with comma thousands separators: 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatAmount prefixes the grouped number with a static currency label.
func FormatAmount(currency string, n int64) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return FormatNumber(n)
	}
	return currency + " " + FormatNumber(n)
}
