package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPKR renders whole rupees with digit grouping, e.g. "Rs 1,400,000".
func FormatPKR(amount decimal.Decimal) string {
	rounded := amount.Round(0).IntPart()
	if rounded < 0 {
		return printer.Sprintf("-Rs %d", -rounded)
	}
	return printer.Sprintf("Rs %d", rounded)
}

// FormatUSD renders dollars with two decimals and digit grouping, e.g. "$5,000.00".
func FormatUSD(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	if f < 0 {
		return printer.Sprintf("-$%.2f", -f)
	}
	return printer.Sprintf("$%.2f", f)
}
