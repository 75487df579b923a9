package extracthtml

import "testing"

// TestParseNumber covers the leading-prefix rules used for ranking points.
func TestParseNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"131.000", 131, true},
		{" 98.5 pts", 98.5, true},
		{"-3", -3, true},
		{".5", 0.5, true},
		{"1e2x", 100, true},
		{"12,5", 12, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"1e999", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseNumber(%q): want (%v,%v) got (%v,%v)", c.in, c.want, c.ok, got, ok)
		}
	}
}

// TestParseNonNegative verifies negatives and garbage collapse to zero.
func TestParseNonNegative(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]float64{
		"136":   136,
		"-1":    0,
		"abc":   0,
		"Inf":   0,
		"42abc": 42,
	} {
		if got := ParseNonNegative(in); got != want {
			t.Fatalf("ParseNonNegative(%q): want %v got %v", in, want, got)
		}
	}
}
