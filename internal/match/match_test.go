package match

import (
	"errors"
	"testing"

	"kotsuhi/internal/core"

	"github.com/shopspring/decimal"
)

func rec(person, date, route string, total int64) core.Record {
	d, _ := core.ParseDate(date)
	return core.Record{
		Person:     person,
		Date:       d,
		Route:      route,
		DistanceKm: decimal.NewFromInt(10),
		TollFee:    decimal.Zero,
		Total:      total,
	}
}

func TestLocate(t *testing.T) {
	records := []core.Record{
		rec("A", "2024-05-01", "office-site", 150),
		rec("B", "2024-05-02", "office-depot", 500),
		rec("A", "2024-05-03", "site-office", 1500),
	}

	pos, err := Locate(records, Key{Person: "B", Date: "2024-05-02", Total: "500"})
	if err != nil || pos != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", pos, err)
	}

	// Display formatting on the total is tolerated.
	pos, err = Locate(records, Key{Person: "A", Date: "2024-05-03", Total: "1,500円"})
	if err != nil || pos != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", pos, err)
	}
}

func TestLocateNoMatch(t *testing.T) {
	records := []core.Record{rec("A", "2024-05-01", "r", 150)}

	keys := []Key{
		{Person: "B", Date: "2024-05-01", Total: "150"}, // wrong person
		{Person: "A", Date: "2024-05-02", Total: "150"}, // wrong date
		{Person: "A", Date: "2024-05-01", Total: "151"}, // wrong total
	}
	for i, k := range keys {
		if _, err := Locate(records, k); !errors.Is(err, ErrNoMatch) {
			t.Fatalf("case %d: expected ErrNoMatch, got %v", i, err)
		}
	}

	if _, err := Locate(nil, Key{Person: "A", Date: "2024-05-01", Total: "150"}); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("empty set: expected ErrNoMatch, got %v", err)
	}
}

// Route text is not part of the key: duplicates in (person, date, total)
// are indistinguishable and the first row in storage order wins for either
// target. This documents the accepted ambiguity.
func TestLocateDuplicatesFirstWins(t *testing.T) {
	records := []core.Record{
		rec("A", "2024-05-01", "morning run", 150),
		rec("A", "2024-05-01", "evening run", 150),
	}
	// The key cannot express the route, so a user aiming at either duplicate
	// produces the same key and always resolves to the first row.
	pos, err := Locate(records, Key{Person: "A", Date: "2024-05-01", Total: "150"})
	if err != nil || pos != 0 {
		t.Fatalf("got (%d, %v), want first match (0, nil)", pos, err)
	}
}
