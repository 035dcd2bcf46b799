// Package storage implements the ledger contract on an embedded SQLite
// database. Unlike the flat-file and spreadsheet backends it has a real row
// identifier internally, but the contract stays positional so the backends
// remain interchangeable.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const fuelRateKey = "fuel_rate"

type SQLiteLedger struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteLedger)(nil)

func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func (s *SQLiteLedger) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListRecords returns all rows in insertion order.
func (s *SQLiteLedger) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT person, date, route, distance_km, toll_fee, total FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var person, date, route, distance, toll string
		var total int64
		if err := rows.Scan(&person, &date, &route, &distance, &toll, &total); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r, err := buildRecord(person, date, route, distance, toll, total)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *SQLiteLedger) Append(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (person, date, route, distance_km, toll_fee, total) VALUES (?, ?, ?, ?, ?, ?)`,
		r.Person, r.Date.Format(), r.Route, r.DistanceKm.String(), r.TollFee.String(), r.Total)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// DeleteAt removes the row at the given storage position. Position is
// resolved to a primary key inside one transaction so the pair of
// statements acts on a consistent view.
func (s *SQLiteLedger) DeleteAt(ctx context.Context, pos int) error {
	if pos < 0 {
		return fmt.Errorf("delete position %d: %w", pos, ledger.ErrNoSuchRow)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM records ORDER BY id LIMIT 1 OFFSET ?`, pos).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("delete position %d: %w", pos, ledger.ErrNoSuchRow)
	}
	if err != nil {
		return fmt.Errorf("resolve delete position: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (s *SQLiteLedger) FuelRate(ctx context.Context) (decimal.Decimal, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, fuelRateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultFuelRate, nil
	}
	if err != nil {
		return core.DefaultFuelRate, fmt.Errorf("query fuel rate: %w", err)
	}
	rate, err := decimal.NewFromString(value)
	if err != nil || rate.IsNegative() {
		return core.DefaultFuelRate, nil
	}
	return rate, nil
}

func (s *SQLiteLedger) SetFuelRate(ctx context.Context, rate decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		fuelRateKey, rate.String())
	if err != nil {
		return fmt.Errorf("upsert fuel rate: %w", err)
	}
	return nil
}

func buildRecord(person, date, route, distance, toll string, total int64) (core.Record, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Record{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	dist, err := decimal.NewFromString(distance)
	if err != nil {
		return core.Record{}, fmt.Errorf("stored distance %q: %w", distance, err)
	}
	tollFee, err := decimal.NewFromString(toll)
	if err != nil {
		return core.Record{}, fmt.Errorf("stored toll %q: %w", toll, err)
	}
	return core.Record{
		Person:     person,
		Date:       d,
		Route:      route,
		DistanceKm: dist,
		TollFee:    tollFee,
		Total:      total,
	}, nil
}
