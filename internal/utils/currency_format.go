package utils

import (
	"github.com/shopspring/decimal"
)

// currencyPrecision maps currency codes to their minor-unit precision.
// Unlisted currencies fall back to 2.
var currencyPrecision = map[string]int{
	"VND": 0,
	"JPY": 0,
	"KRW": 0,
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
}

// PrecisionForCurrency returns the display precision for a currency code.
func PrecisionForCurrency(code string) int {
	if p, ok := currencyPrecision[code]; ok {
		return p
	}
	return 2
}

// FormatWithCurrency formats an amount with the correct precision for the
// given currency code.
// Example: amount 12.3456 with USD returns "12.35", with VND returns "12".
func FormatWithCurrency(amount decimal.Decimal, currencyCode string) string {
	return amount.Round(int32(PrecisionForCurrency(currencyCode))).String()
}

// FormatWithPrecision formats an amount with the given precision.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
