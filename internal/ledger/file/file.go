// Package file implements the ledger contract on top of two local flat
// files: a CSV table for records and a single-line text file for the fuel
// rate. Writes rewrite the whole file; this is only safe for a
// single-instance deployment.
package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger"

	"github.com/shopspring/decimal"
)

var header = []string{"name", "date", "route", "distance_km", "toll_fee", "total"}

type Ledger struct {
	recordsPath string
	ratePath    string
}

// Ensure interface conformance
var _ ledger.Store = (*Ledger)(nil)

func New(recordsPath, ratePath string) *Ledger {
	return &Ledger{recordsPath: recordsPath, ratePath: ratePath}
}

// ListRecords reads the whole CSV table. A missing or unreadable file yields
// an empty list rather than an error: listing must always render, even with
// absent data. Rows that do not parse are skipped.
func (l *Ledger) ListRecords(_ context.Context) ([]core.Record, error) {
	return l.load(), nil
}

// Append rewrites the full table with the new record concatenated. The
// rewrite is the backend's atomicity unit: there is no partial-write
// recovery beyond it.
func (l *Ledger) Append(_ context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	records := append(l.load(), r)
	if err := l.rewrite(records); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// DeleteAt removes the row at the given storage position and rewrites the
// table.
func (l *Ledger) DeleteAt(_ context.Context, pos int) error {
	records := l.load()
	if pos < 0 || pos >= len(records) {
		return fmt.Errorf("delete position %d of %d: %w", pos, len(records), ledger.ErrNoSuchRow)
	}
	records = append(records[:pos], records[pos+1:]...)
	if err := l.rewrite(records); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// FuelRate reads the single-value rate file. Absent or unparsable content
// falls back to the default rate.
func (l *Ledger) FuelRate(_ context.Context) (decimal.Decimal, error) {
	data, err := os.ReadFile(l.ratePath)
	if err != nil {
		return core.DefaultFuelRate, nil
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(string(data)))
	if err != nil || rate.IsNegative() {
		return core.DefaultFuelRate, nil
	}
	return rate, nil
}

func (l *Ledger) SetFuelRate(_ context.Context, rate decimal.Decimal) error {
	if err := os.MkdirAll(filepath.Dir(l.ratePath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(l.ratePath, []byte(rate.String()), 0o644); err != nil {
		return fmt.Errorf("write fuel rate: %w", err)
	}
	return nil
}

func (l *Ledger) load() []core.Record {
	f, err := os.Open(l.recordsPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		slog.Warn("Unreadable records file, treating as empty", "path", l.recordsPath, "error", err)
		return nil
	}

	var out []core.Record
	for i, row := range rows {
		r, ok := parseRow(row)
		if !ok {
			// Row 0 is the mandatory header; anything else is a corrupt row.
			if i != 0 {
				slog.Warn("Skipping unparsable record row", "path", l.recordsPath, "row", i)
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func (l *Ledger) rewrite(records []core.Record) error {
	if err := os.MkdirAll(filepath.Dir(l.recordsPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.Create(l.recordsPath)
	if err != nil {
		return fmt.Errorf("create records file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Person,
			r.Date.Format(),
			r.Route,
			r.DistanceKm.String(),
			r.TollFee.String(),
			strconv.FormatInt(r.Total, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush records file: %w", err)
	}
	return f.Close()
}

func parseRow(row []string) (core.Record, bool) {
	if len(row) < 6 {
		return core.Record{}, false
	}
	date, err := core.ParseDate(row[1])
	if err != nil {
		return core.Record{}, false
	}
	dist, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return core.Record{}, false
	}
	toll, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return core.Record{}, false
	}
	total, err := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
	if err != nil {
		return core.Record{}, false
	}
	return core.Record{
		Person:     strings.TrimSpace(row[0]),
		Date:       date,
		Route:      row[2],
		DistanceKm: dist,
		TollFee:    toll,
		Total:      total,
	}, true
}
