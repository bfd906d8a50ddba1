package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// FormatPrice renders a USD price with precision that scales down for
// sub-dollar coins. Absent and zero prices render as N/A.
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return notAvailable
	}
	v := *price

	switch {
	case v >= 1:
		return "$" + groupThousands(decimal.NewFromFloat(v).StringFixed(2))
	case v >= 0.01:
		return fmt.Sprintf("$%.4f", v)
	case v >= 0.00001:
		return fmt.Sprintf("$%.8f", v)
	default:
		s := strconv.FormatFloat(v, 'e', 2, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		s = strings.Replace(s, "e+0", "e+", 1)
		return "$" + s
	}
}

// FormatLargeNumber renders market caps and volumes with T/B/M suffixes.
func FormatLargeNumber(num *float64) string {
	return compact(num, "$")
}

// FormatSupply is FormatLargeNumber for coin quantities.
func FormatSupply(num *float64) string {
	return compact(num, "")
}

func compact(num *float64, unit string) string {
	if num == nil || *num == 0 {
		return notAvailable
	}
	v := *num

	switch {
	case v >= 1e12:
		return fmt.Sprintf("%s%.2fT", unit, v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%s%.2fB", unit, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s%.2fM", unit, v/1e6)
	default:
		return unit + groupThousands(decimal.NewFromFloat(v).Round(0).String())
	}
}

// FormatPercent renders a signed percentage with an arrow, or an em dash
// placeholder when absent.
func FormatPercent(pct *float64) string {
	if pct == nil {
		return "—"
	}
	if *pct >= 0 {
		return fmt.Sprintf("▲ %.2f%%", *pct)
	}
	return fmt.Sprintf("▼ %.2f%%", -*pct)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
