// Package report derives monthly and per-person summaries from a record
// set. Views are recomputed on every call, never cached independently of the
// underlying rows. Currency sums accumulate in integer yen; distance sums
// stay exact decimals.
package report

import (
	"sort"

	"kotsuhi/internal/core"

	"github.com/shopspring/decimal"
)

// PersonMonthSummary is one person's totals for one month.
type PersonMonthSummary struct {
	DistanceKm decimal.Decimal
	TollFee    decimal.Decimal
	Total      int64
}

// TotalFor sums all record totals.
func TotalFor(records []core.Record) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Total
	}
	return sum
}

// ForMonth filters records to one YYYY-MM month, preserving storage order.
func ForMonth(records []core.Record, month string) []core.Record {
	var out []core.Record
	for _, r := range records {
		if r.Date.MonthKey() == month {
			out = append(out, r)
		}
	}
	return out
}

// ForPerson filters records to one person, preserving storage order.
func ForPerson(records []core.Record, person string) []core.Record {
	var out []core.Record
	for _, r := range records {
		if r.Person == person {
			out = append(out, r)
		}
	}
	return out
}

// ByPersonMonth groups one month's records by person and sums their totals.
func ByPersonMonth(records []core.Record, month string) map[string]int64 {
	out := make(map[string]int64)
	for _, r := range ForMonth(records, month) {
		out[r.Person] += r.Total
	}
	return out
}

// SummaryFor computes one person's distance, toll and total sums for one
// month.
func SummaryFor(records []core.Record, person, month string) PersonMonthSummary {
	s := PersonMonthSummary{DistanceKm: decimal.Zero, TollFee: decimal.Zero}
	for _, r := range ForMonth(ForPerson(records, person), month) {
		s.DistanceKm = s.DistanceKm.Add(r.DistanceKm)
		s.TollFee = s.TollFee.Add(r.TollFee)
		s.Total += r.Total
	}
	return s
}

// Months lists the distinct months present in the record set, newest first.
func Months(records []core.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		key := r.Date.MonthKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
