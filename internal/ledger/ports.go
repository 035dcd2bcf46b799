// Package ledger defines the storage contract shared by every backend: the
// durable collection of expense records plus the single fuel-rate value.
package ledger

import (
	"context"
	"errors"

	"kotsuhi/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNoSuchRow is returned by DeleteAt when the position does not identify a
// stored row anymore.
var ErrNoSuchRow = errors.New("no such row")

// Ports for outbound storage adapters.
type (
	RecordLister interface {
		// ListRecords returns all records in storage order, oldest first.
		ListRecords(ctx context.Context) ([]core.Record, error)
	}

	RecordAppender interface {
		// Append durably writes one new record at the end of the table.
		Append(ctx context.Context, r core.Record) error
	}

	RecordDeleter interface {
		// DeleteAt durably removes exactly the row at the given zero-based
		// storage position.
		DeleteAt(ctx context.Context, pos int) error
	}

	RateReader interface {
		FuelRate(ctx context.Context) (decimal.Decimal, error)
	}

	RateWriter interface {
		SetFuelRate(ctx context.Context, rate decimal.Decimal) error
	}

	// Store is the full ledger contract implemented by every backend. A
	// process talks to exactly one Store, chosen at startup; backends are
	// never mixed within one logical operation.
	Store interface {
		RecordLister
		RecordAppender
		RecordDeleter
		RateReader
		RateWriter
	}
)
