package locale

import (
	"fmt"

	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// groupDigits renders amount with en-US grouping and up to three fraction digits,
// whatever the active language.
func groupDigits(amount decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("%v", number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(3)))
}

// FormatPrice renders a price with the currency wording of lang.
func FormatPrice(amount decimal.Decimal, lang enums.Lang) string {
	num := groupDigits(amount)
	if lang == enums.LangArabic {
		return fmt.Sprintf("%s جنيه", num)
	}
	return fmt.Sprintf("EGP %s", num)
}

// FormatSaving renders a "you save" label for lang.
func FormatSaving(amount decimal.Decimal, lang enums.Lang) string {
	num := groupDigits(amount)
	if lang == enums.LangArabic {
		return fmt.Sprintf("وفر %s جنيه", num)
	}
	return fmt.Sprintf("Save EGP %s", num)
}
