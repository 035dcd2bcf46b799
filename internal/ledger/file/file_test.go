package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger"

	"github.com/shopspring/decimal"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "expenses.csv"), filepath.Join(dir, "config.txt"))
}

func record(person, date string, distance, toll string, total int64) core.Record {
	d, _ := core.ParseDate(date)
	return core.Record{
		Person:     person,
		Date:       d,
		Route:      "office-site",
		DistanceKm: decimal.RequireFromString(distance),
		TollFee:    decimal.RequireFromString(toll),
		Total:      total,
	}
}

func TestAppendAndList(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	// Missing file lists as empty, not as an error.
	got, err := l.ListRecords(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v (err=%v)", got, err)
	}

	if err := l.Append(ctx, record("A", "2024-05-01", "10", "0", 150)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(ctx, record("B", "2024-05-02", "0", "500", 500)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err = l.ListRecords(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 records, got %d (err=%v)", len(got), err)
	}
	// Storage order, oldest first.
	if got[0].Person != "A" || got[1].Person != "B" {
		t.Fatalf("unexpected order: %v", got)
	}
	if got[0].Date.Format() != "2024-05-01" || !got[0].DistanceKm.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
}

func TestAppendRejectsEmptyRecord(t *testing.T) {
	l := newTestLedger(t)
	r := record("A", "2024-05-01", "0", "0", 0)
	if err := l.Append(context.Background(), r); err == nil {
		t.Fatal("expected validation error for zero distance and toll")
	}
}

func TestDeleteAt(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	for _, r := range []core.Record{
		record("A", "2024-05-01", "10", "0", 150),
		record("B", "2024-05-02", "0", "500", 500),
		record("C", "2024-05-03", "5", "0", 75),
	} {
		if err := l.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := l.DeleteAt(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := l.ListRecords(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 records after delete, got %d", len(got))
	}
	for _, r := range got {
		if r.Person == "B" {
			t.Fatal("deleted row still present")
		}
	}

	if err := l.DeleteAt(ctx, 5); !errors.Is(err, ledger.ErrNoSuchRow) {
		t.Fatalf("expected ErrNoSuchRow, got %v", err)
	}
	if err := l.DeleteAt(ctx, -1); !errors.Is(err, ledger.ErrNoSuchRow) {
		t.Fatalf("expected ErrNoSuchRow, got %v", err)
	}
}

func TestCorruptFileListsEmpty(t *testing.T) {
	l := newTestLedger(t)
	if err := os.WriteFile(l.recordsPath, []byte("name,date\n\"unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := l.ListRecords(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected fail-soft empty list, got %v (err=%v)", got, err)
	}
}

func TestFuelRate(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	// Absent file falls back to the default.
	rate, err := l.FuelRate(ctx)
	if err != nil || !rate.Equal(core.DefaultFuelRate) {
		t.Fatalf("expected default rate, got %s (err=%v)", rate, err)
	}

	if err := l.SetFuelRate(ctx, decimal.RequireFromString("17.3")); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	rate, _ = l.FuelRate(ctx)
	if !rate.Equal(decimal.RequireFromString("17.3")) {
		t.Fatalf("expected 17.3, got %s", rate)
	}

	// Garbage content also falls back to the default.
	if err := os.WriteFile(l.ratePath, []byte("not a number"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rate, _ = l.FuelRate(ctx)
	if !rate.Equal(core.DefaultFuelRate) {
		t.Fatalf("expected default rate for garbage file, got %s", rate)
	}
}
