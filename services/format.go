package services

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// turkishNumber groups thousands with "." and uses "," as the decimal mark.
const turkishNumber = "#.###,##"

// FormatTRY formats an amount in Turkish lira notation, e.g. ₺1.234.567,89.
// The amount is rounded to kuruş first so the display matches stored values.
func FormatTRY(amount float64) string {
	amount = RoundMoney(amount)
	if amount < 0 {
		return "-₺" + humanize.FormatFloat(turkishNumber, -amount)
	}
	return "₺" + humanize.FormatFloat(turkishNumber, amount)
}

// FormatKg formats a weight with two decimals, e.g. 1.250,50 kg.
func FormatKg(kg float64) string {
	return humanize.FormatFloat(turkishNumber, RoundMoney(kg)) + " kg"
}

// FormatPercent formats a percentage with up to two decimals, e.g. %20 or %12,5.
func FormatPercent(pct float64) string {
	return "%" + strings.Replace(decimal.NewFromFloat(pct).Round(2).String(), ".", ",", 1)
}

// RoundMoney rounds half away from zero to two decimals. Amounts are rounded
// only when they leave the engine (storage, documents), never mid-calculation.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
