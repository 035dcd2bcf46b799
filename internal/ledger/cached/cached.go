// Package cached decorates a ledger backend with a time-bounded read cache.
//
// A cached value is a borrowed copy of the backend's state, never
// authoritative past its TTL. Every successful write invalidates the whole
// cache before returning, so a read after a write within the same session
// observes the write. Reads within the TTL window may legitimately miss a
// write performed by another process against the same backend.
package cached

import (
	"context"
	"log/slog"
	"time"

	"kotsuhi/internal/cache"
	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a cached read stays valid.
const DefaultTTL = 60 * time.Second

const (
	keyRecords  = "records"
	keyFuelRate = "fuel_rate"
)

type Store struct {
	next    ledger.Store
	records *cache.TTLCache[[]core.Record]
	rate    *cache.TTLCache[decimal.Decimal]
	group   singleflight.Group
}

var _ ledger.Store = (*Store)(nil)

// New wraps a backend store. A non-positive ttl falls back to DefaultTTL.
func New(next ledger.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		next:    next,
		records: cache.NewTTL[[]core.Record](ttl),
		rate:    cache.NewTTL[decimal.Decimal](ttl),
	}
}

// ListRecords serves from cache within the TTL window. On a miss, concurrent
// callers are coalesced into a single backend fetch. A failing backend read
// is absorbed here: the caller gets an empty list and nothing is cached, so
// the next read retries the backend.
func (s *Store) ListRecords(ctx context.Context) ([]core.Record, error) {
	if records, ok := s.records.Get(keyRecords); ok {
		return copyRecords(records), nil
	}
	records, err := s.fetchRecords(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Backend read failed, serving empty record list", "error", err)
		return nil, nil
	}
	return records, nil
}

// RefreshRecords always fetches from the backend, repopulating the cache.
// Delete flows use it so that matcher positions refer to the same snapshot
// the backend delete will act on; unlike ListRecords it fails loud, a
// delete must not proceed on a guess.
func (s *Store) RefreshRecords(ctx context.Context) ([]core.Record, error) {
	s.records.Delete(keyRecords)
	return s.fetchRecords(ctx)
}

func (s *Store) fetchRecords(ctx context.Context) ([]core.Record, error) {
	v, err, _ := s.group.Do(keyRecords, func() (any, error) {
		records, err := s.next.ListRecords(ctx)
		if err != nil {
			return nil, err
		}
		s.records.Set(keyRecords, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return copyRecords(v.([]core.Record)), nil
}

// FuelRate serves from cache within the TTL window, falling back to the
// default rate when the backend read fails.
func (s *Store) FuelRate(ctx context.Context) (decimal.Decimal, error) {
	if rate, ok := s.rate.Get(keyFuelRate); ok {
		return rate, nil
	}
	v, err, _ := s.group.Do(keyFuelRate, func() (any, error) {
		rate, err := s.next.FuelRate(ctx)
		if err != nil {
			return decimal.Decimal{}, err
		}
		s.rate.Set(keyFuelRate, rate)
		return rate, nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Backend rate read failed, serving default", "error", err)
		return core.DefaultFuelRate, nil
	}
	return v.(decimal.Decimal), nil
}

// Append writes through and invalidates on success, before returning to the
// caller.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := s.next.Append(ctx, r); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

func (s *Store) DeleteAt(ctx context.Context, pos int) error {
	if err := s.next.DeleteAt(ctx, pos); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

func (s *Store) SetFuelRate(ctx context.Context, rate decimal.Decimal) error {
	if err := s.next.SetFuelRate(ctx, rate); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate clears the whole cache. Writes clear wholesale rather than per
// key: the record list and the rate never stay cached across any mutation.
func (s *Store) Invalidate() {
	s.records.Purge()
	s.rate.Purge()
}

func copyRecords(in []core.Record) []core.Record {
	if in == nil {
		return nil
	}
	out := make([]core.Record, len(in))
	copy(out, in)
	return out
}
