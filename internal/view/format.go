package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// pricePrinter renders amounts with locale thousand separators. The catalog
// prices are in Kenyan shillings but no conversion happens here; only the
// grouping is locale-aware.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders d with thousand separators, e.g. "12,500" or
// "1,234.50". Whole amounts are rendered without a fraction.
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return pricePrinter.Sprintf("%v", number.Decimal(d.IntPart()))
	}
	f, _ := d.Float64()
	return pricePrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// PageButton is one pagination control.
type PageButton struct {
	Page   int
	Active bool
}

// PageButtons returns one button per page with the current page marked
// active. Listings with fewer than two pages render no controls.
func PageButtons(current, total int) []PageButton {
	if total < 2 {
		return nil
	}
	buttons := make([]PageButton, total)
	for i := range buttons {
		buttons[i] = PageButton{
			Page:   i + 1,
			Active: i+1 == current,
		}
	}
	return buttons
}
