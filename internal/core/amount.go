// Package core provides the travel-expense domain model: records, dates,
// freeform amount parsing and the line-item total computation.
//
// This file contains parsing of user-typed amounts and the total formula.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount sanitizes a freeform user string into a non-negative decimal.
//
// It keeps only decimal digits and the radix point and discards everything
// else, which tolerates unit suffixes ("10.5km"), currency symbols and
// thousands separators ("1,500円"). Anything that still does not parse as a
// decimal after filtering, including ambiguous multi-dot input like "1.2.3",
// collapses to zero. ParseAmount never fails: malformed input is absorbed
// into a zero value, and the caller rejects all-zero records instead.
//
// Examples:
//
//	ParseAmount("10.5km") -> 10.5
//	ParseAmount("1,500円") -> 1500
//	ParseAmount("")       -> 0
//	ParseAmount("1.2.3")  -> 0
func ParseAmount(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComputeTotal derives the line-item total in integer yen from the traveled
// distance, the per-kilometer fuel rate and the toll fee:
//
//	total = truncate(distanceKm * fuelRate + tollFee)
//
// Truncation is toward zero. Pure function, no side effects.
func ComputeTotal(distanceKm, tollFee, fuelRate decimal.Decimal) int64 {
	return distanceKm.Mul(fuelRate).Add(tollFee).IntPart()
}
