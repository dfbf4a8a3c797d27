package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders whole dollars with thousands separators, e.g. "$1,071".
func FormatAmount(amount int) string {
	if amount < 0 {
		return "-$" + printer.Sprintf("%d", -amount)
	}
	return "$" + printer.Sprintf("%d", amount)
}

// CycleSuffix is the short period label shown after a price.
func CycleSuffix(c BillingCycle) string {
	if c == Yearly {
		return "/yr"
	}
	return "/mo"
}
