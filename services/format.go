package services

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// FormatEUR formats a float64 amount into euro notation with thousands
// separated by dots and a decimal comma (e.g. €1.234.567,89), the
// convention used on Italian quotations. The result always includes
// exactly 2 decimal places.
func FormatEUR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	formatted := applyThousandsGrouping(intPart)

	result := "€" + formatted + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts dots into an integer string every 3
// digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "." + result
	}

	return result
}

// ParseAmount coerces the string price fields the upstream services
// return into a float64. Tolerates comma decimals and embedded currency
// symbols; unparseable input yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// "1.234,56" and "1234,56" both mean comma decimals.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return cast.ToFloat64(s)
}
