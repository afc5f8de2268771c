package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a monetary value with thousands separators, keeping
// whatever fractional digits the value carries: 1250 -> "1,250",
// 1250.5 -> "1,250.5". No rounding is applied here; amounts are already
// rounded where they are computed.
func FormatMoney(d decimal.Decimal) string {
	s := d.String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	writeGrouped(&b, intPart)
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// writeGrouped writes digits with a comma every three places from the right.
func writeGrouped(b *strings.Builder, digits string) {
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	if lead > len(digits) {
		lead = len(digits)
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
}
