package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesTR = []string{"", "bir", "iki", "üç", "dört", "beş", "altı", "yedi", "sekiz", "dokuz"}
	tensTR = []string{"", "on", "yirmi", "otuz", "kırk", "elli", "altmış", "yetmiş", "seksen", "doksan"}
	// Scales for each group of three digits, lowest first.
	scalesTR = []string{"", "bin", "milyon", "milyar", "trilyon"}
)

// AmountToWords spells a lira amount the way it is written on Turkish
// commercial documents.
// Example: 1250.50 → "Yalnız bin iki yüz elli Türk Lirası elli Kuruş"
func AmountToWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	prefix := "Yalnız "
	if d.IsNegative() {
		prefix = "Yalnız eksi "
		d = d.Neg()
	}

	lira := d.IntPart()
	kurus := d.Sub(decimal.NewFromInt(lira)).Shift(2).IntPart()

	liraWords := numberToWordsTR(lira)
	if liraWords == "" {
		liraWords = "sıfır"
	}
	out := prefix + liraWords + " Türk Lirası"
	if kurus > 0 {
		out += " " + numberToWordsTR(kurus) + " Kuruş"
	}
	return out
}

// numberToWordsTR returns n in Turkish words; zero yields "".
// "bir" is dropped before "yüz" and before "bin" when it stands alone.
func numberToWordsTR(n int64) string {
	if n == 0 {
		return ""
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		if i == 1 && g == 1 {
			parts = append(parts, "bin")
			continue
		}
		parts = append(parts, under1000TR(g))
		if i > 0 && i < len(scalesTR) {
			parts = append(parts, scalesTR[i])
		}
	}
	return strings.Join(parts, " ")
}

func under1000TR(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		if h > 1 {
			parts = append(parts, onesTR[h])
		}
		parts = append(parts, "yüz")
	}
	if t := (n % 100) / 10; t > 0 {
		parts = append(parts, tensTR[t])
	}
	if o := n % 10; o > 0 {
		parts = append(parts, onesTR[o])
	}
	return strings.Join(parts, " ")
}
