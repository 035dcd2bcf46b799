package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"10.5", "10.5"},
		{"10.5km", "10.5"},
		{"1,500円", "1500"},
		{"¥300", "300"},
		{" 42 ", "42"},
		{"0", "0"},
		{"", "0"},
		{"abc", "0"},
		{"1.2.3", "0"}, // ambiguous multi-dot input is invalid, not "1.2"
		{"-5", "5"},    // minus sign is discarded like any other symbol
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if got.String() != tc.out {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.out)
		}
	}
}

// Parsing is fail-open by contract: every input produces a value, and feeding
// a parse result back through the parser yields the same value.
func TestParseAmountIdempotent(t *testing.T) {
	inputs := []string{"10.5km", "1,500円", "", "1.2.3", "0.25"}
	for _, in := range inputs {
		once := ParseAmount(in)
		twice := ParseAmount(once.String())
		if !once.Equal(twice) {
			t.Fatalf("ParseAmount not idempotent for %q: %s then %s", in, once, twice)
		}
	}
}

func TestComputeTotal(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	cases := []struct {
		dist, toll, rate string
		want             int64
	}{
		{"10", "0", "15", 150},
		{"0", "500", "15", 500},
		{"10.5", "0", "15", 157},   // 157.5 truncates down
		{"3.3", "120", "14.9", 169}, // 49.17 + 120 = 169.17
		{"0", "0", "15", 0},
	}
	for _, tc := range cases {
		got := ComputeTotal(d(tc.dist), d(tc.toll), d(tc.rate))
		if got != tc.want {
			t.Fatalf("ComputeTotal(%s, %s, %s) = %d, want %d", tc.dist, tc.toll, tc.rate, got, tc.want)
		}
		if got < 0 {
			t.Fatalf("ComputeTotal returned negative total %d", got)
		}
	}
}
