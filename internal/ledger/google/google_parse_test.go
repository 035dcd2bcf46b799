package google

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRecordRows(t *testing.T) {
	values := [][]any{
		{"name", "date", "route", "distance_km", "toll_fee", "total"}, // header
		{"石原", "2024-05-01", "事務所〜現場", "10.5", "0", "157"},
		{"斎藤", "2024-05-02", "", "0", "1,500", "1500"},
		{"broken", "not-a-date", "x", "1", "0", "15"},
		{"short", "2024-05-03"},
	}
	records, skipped := parseRecordRows(values)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
	if records[0].Person != "石原" || !records[0].DistanceKm.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if !records[1].TollFee.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("thousands separator not normalized: %+v", records[1])
	}
}

func TestSheetRowForPosition(t *testing.T) {
	values := [][]any{
		{"name", "date", "route", "distance_km", "toll_fee", "total"},
		{"A", "2024-05-01", "r", "10", "0", "150"},
		{"#", "comment row"},
		{"B", "2024-05-02", "r", "0", "500", "500"},
	}
	// Position 0 is worksheet row 1 (right after the header).
	if idx, ok := sheetRowForPosition(values, 0); !ok || idx != 1 {
		t.Fatalf("pos 0: got (%d, %v)", idx, ok)
	}
	// Position 1 skips the unparsable row in between.
	if idx, ok := sheetRowForPosition(values, 1); !ok || idx != 3 {
		t.Fatalf("pos 1: got (%d, %v)", idx, ok)
	}
	if _, ok := sheetRowForPosition(values, 2); ok {
		t.Fatal("pos 2 should be out of range")
	}
	if _, ok := sheetRowForPosition(values, -1); ok {
		t.Fatal("negative position should be out of range")
	}
}

func TestNormalizeNumber(t *testing.T) {
	cases := []struct{ in, out string }{
		{"10.5", "10.5"},
		{"10,5", "10.5"},
		{"1,500", "1500"},
		{"¥1,500", "1500"},
		{" 300円 ", "300"},
	}
	for _, tc := range cases {
		if got := normalizeNumber(tc.in); got != tc.out {
			t.Fatalf("normalizeNumber(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseRateCell(t *testing.T) {
	if got := parseRateCell("17,3"); !got.Equal(decimal.RequireFromString("17.3")) {
		t.Fatalf("decimal comma: got %s", got)
	}
	if got := parseRateCell("garbage"); !got.Equal(decimal.RequireFromString("15.0")) {
		t.Fatalf("garbage should fall back to default, got %s", got)
	}
	if got := parseRateCell(""); !got.Equal(decimal.RequireFromString("15.0")) {
		t.Fatalf("empty should fall back to default, got %s", got)
	}
}
