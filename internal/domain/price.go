package domain

import (
	"regexp"
	"strings"
)

var priceRe = regexp.MustCompile(`^(\d{1,10})(?:\.(\d{1,2}))?$`)

// NormalizePrice validates a decimal price and returns it with exactly two
// fraction digits. A comma is accepted as the decimal separator.
// Returns ok=false for negative, empty or malformed input.
func NormalizePrice(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	whole := strings.TrimLeft(m[1], "0")
	if whole == "" {
		whole = "0"
	}
	frac := m[2]
	for len(frac) < 2 {
		frac += "0"
	}
	return whole + "." + frac, true
}
