// Package money holds rounding and formatting helpers for currency values.
//
// Amounts are carried as float64 the way they arrive from the order tables;
// comparisons happen at 2-decimal fixed point to avoid precision drift.
package money

import (
	"fmt"
	"math"
	"strings"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Cents converts an amount to integer cents, rounded.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Equal reports whether two amounts are the same at cent precision.
func Equal(a, b float64) bool {
	return Cents(a) == Cents(b)
}

// FormatComma renders an amount with a comma decimal separator and no
// thousands separator, e.g. 1234.5 -> "1234,50". This is the BMD CSV
// number format.
func FormatComma(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// FormatEuro renders an amount as "1.234,56 €" (dot thousands separator,
// comma decimal separator).
func FormatEuro(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart := s[:len(s)-3]
	decPart := s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + decPart + " €"
	if neg {
		out = "-" + out
	}
	return out
}
