// Package match resolves a record as displayed to a user back to its
// physical row position. The backends assign no durable row identifier, so
// the lookup uses a composite natural key instead.
package match

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"kotsuhi/internal/core"
)

// ErrNoMatch is returned when no stored row matches the key. Nothing has
// been touched when it is returned.
var ErrNoMatch = errors.New("no matching record")

// Key is the natural key a user-facing row exposes: owner, date and the
// displayed total. Route text is deliberately not part of the key; free text
// does not round-trip reliably through storage and display formatting. Two
// records equal in (person, date, total) but differing in route are
// therefore indistinguishable here: Locate guarantees at most one deletion
// per invocation, not deletion of the intended duplicate.
type Key struct {
	Person string
	Date   string // YYYY-MM-DD, as displayed
	Total  string // integer amount, display formatting tolerated ("1,500円")
}

// Locate scans records in storage order and returns the position of the
// first structural match, or ErrNoMatch.
func Locate(records []core.Record, key Key) (int, error) {
	person := strings.TrimSpace(key.Person)
	date := strings.TrimSpace(key.Date)
	total := digitsOnly(key.Total)

	for i, r := range records {
		if r.Person != person {
			continue
		}
		if r.Date.Format() != date {
			continue
		}
		if strconv.FormatInt(r.Total, 10) != total {
			continue
		}
		return i, nil
	}
	return 0, ErrNoMatch
}

// digitsOnly strips every formatting character (currency marks, thousands
// separators, units) from a displayed total.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
