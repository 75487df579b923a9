package extracthtml

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reLeadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of s, ignoring surrounding
// whitespace and any trailing text ("131.000 pts" -> 131). ok is false when s
// does not start with a number.
func ParseNumber(s string) (v float64, ok bool) {
	m := reLeadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// only overflow can get here; the regex guarantees syntax
		return 0, false
	}
	return v, true
}

// ParseNonNegative is ParseNumber clamped to finite, non-negative values;
// anything else yields 0.
func ParseNonNegative(s string) float64 {
	v, ok := ParseNumber(s)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
