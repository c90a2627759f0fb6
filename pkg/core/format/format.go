// Package format holds the display rules shared by terminal output and
// every export: two decimals, thousands separators for currency and a
// percent sign for percentages.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"startup_valuation/pkg/core/valuation"
)

// Formatter renders metric values for humans. The zero value prints
// currency without a symbol.
type Formatter struct {
	Symbol string // Optional currency prefix, e.g. "$"
}

// Currency renders v as "<symbol>1,234,567.89". Negative amounts keep the
// sign in front of the symbol.
func (f Formatter) Currency(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + frac
	if neg && strings.Trim(out, "0.,") != "" {
		return "-" + f.Symbol + out
	}
	return f.Symbol + out
}

// Percent renders an already scaled percentage as "30.94%".
func (f Formatter) Percent(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if s == "-0.00" {
		s = "0.00"
	}
	return s + "%"
}

// Count renders a plain number with thousands separators and no symbol.
func (f Formatter) Count(v float64) string {
	return Formatter{}.Currency(v)
}

// Metric renders m according to its kind.
func (f Formatter) Metric(m valuation.Metric) string {
	switch m.Kind {
	case valuation.Percent:
		return f.Percent(m.Value)
	case valuation.Count:
		return f.Count(m.Value)
	default:
		return f.Currency(m.Value)
	}
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
