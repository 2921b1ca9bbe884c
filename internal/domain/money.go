package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount as "₹1,250,000" for finding and condition
// messages. Fractions are dropped; sanction figures keep full precision.
func FormatINR(amount decimal.Decimal) string {
	whole := amount.Round(0).String()
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var b strings.Builder
	pre := len(whole) % 3
	if pre > 0 {
		b.WriteString(whole[:pre])
	}
	for i := pre; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}

	out := "₹" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a ratio (0.55) as a percentage string ("55.0%").
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
