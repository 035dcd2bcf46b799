// Package services orchestrates ledger operations: parsing and computing a
// new line item, the locate-then-delete flow, and the fuel-rate admin
// action. All reads and writes go through the cached store so write paths
// invalidate before returning.
package services

import (
	"context"
	"fmt"

	"kotsuhi/internal/core"
	"kotsuhi/internal/ledger/cached"
	"kotsuhi/internal/log"
	"kotsuhi/internal/match"
	"kotsuhi/internal/notify"
	"kotsuhi/internal/report"

	"github.com/shopspring/decimal"
)

type LedgerService struct {
	store     *cached.Store
	publisher *notify.Publisher // nil when notifications are not configured
	logger    *log.Logger
}

func NewLedgerService(store *cached.Store, publisher *notify.Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(0, log.ComponentLedger)
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// ListRecords returns all records, empty when the backend is unreachable.
func (s *LedgerService) ListRecords(ctx context.Context) []core.Record {
	records, _ := s.store.ListRecords(ctx)
	return records
}

// RecordsFor returns one person's records for one month together with their
// distance/toll/total sums.
func (s *LedgerService) RecordsFor(ctx context.Context, person, month string) ([]core.Record, report.PersonMonthSummary) {
	records := s.ListRecords(ctx)
	filtered := report.ForMonth(report.ForPerson(records, person), month)
	return filtered, report.SummaryFor(records, person, month)
}

// AddRecord parses the freeform distance and toll strings, computes the
// total at the current fuel rate, validates and appends. The fail-open
// amount parser absorbs malformed input to zero; a record where both
// amounts end up zero is rejected by validation before persistence.
func (s *LedgerService) AddRecord(ctx context.Context, person string, date core.Date, route, distanceStr, tollStr string) (core.Record, error) {
	rate, err := s.store.FuelRate(ctx)
	if err != nil {
		rate = core.DefaultFuelRate
	}

	distance := core.ParseAmount(distanceStr)
	toll := core.ParseAmount(tollStr)

	r := core.Record{
		Person:     person,
		Date:       date,
		Route:      route,
		DistanceKm: distance,
		TollFee:    toll,
		Total:      core.ComputeTotal(distance, toll, rate),
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}

	if err := s.store.Append(ctx, r); err != nil {
		return core.Record{}, fmt.Errorf("append record: %w", err)
	}

	s.logger.InfoContext(ctx, "Record appended",
		log.FieldPerson, r.Person,
		log.FieldMonth, r.Date.MonthKey(),
		log.FieldTotal, r.Total)
	s.publish(ctx, notify.LedgerEvent{
		Kind:   notify.KindAppend,
		Person: r.Person,
		Month:  r.Date.MonthKey(),
		Total:  r.Total,
	})
	return r, nil
}

// DeleteRecord resolves the displayed natural key against a fresh backend
// snapshot and deletes the located row. Fetch and delete are two steps; the
// fresh fetch keeps the matcher's position aligned with the rows the backend
// delete will act on. At most one row is removed per invocation.
func (s *LedgerService) DeleteRecord(ctx context.Context, key match.Key) error {
	records, err := s.store.RefreshRecords(ctx)
	if err != nil {
		return fmt.Errorf("refresh records: %w", err)
	}

	pos, err := match.Locate(records, key)
	if err != nil {
		return err
	}

	if err := s.store.DeleteAt(ctx, pos); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	s.logger.InfoContext(ctx, "Record deleted",
		log.FieldPerson, key.Person,
		log.FieldPosition, pos)
	s.publish(ctx, notify.LedgerEvent{
		Kind:   notify.KindDelete,
		Person: key.Person,
	})
	return nil
}

// FuelRate returns the current per-kilometer rate, the default when the
// backend is unreachable.
func (s *LedgerService) FuelRate(ctx context.Context) decimal.Decimal {
	rate, err := s.store.FuelRate(ctx)
	if err != nil {
		return core.DefaultFuelRate
	}
	return rate
}

// SetFuelRate overwrites the singleton rate. Administrator action; the gate
// itself lives at the transport layer.
func (s *LedgerService) SetFuelRate(ctx context.Context, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.IsZero() {
		return fmt.Errorf("fuel rate must be positive, got %s", rate)
	}
	if err := s.store.SetFuelRate(ctx, rate); err != nil {
		return fmt.Errorf("set fuel rate: %w", err)
	}

	s.logger.InfoContext(ctx, "Fuel rate updated", log.FieldFuelRate, rate.String())
	s.publish(ctx, notify.LedgerEvent{Kind: notify.KindRateChange})
	return nil
}

// MonthSummary returns a month's grand total and the per-person breakdown.
func (s *LedgerService) MonthSummary(ctx context.Context, month string) (int64, map[string]int64) {
	records := report.ForMonth(s.ListRecords(ctx), month)
	return report.TotalFor(records), report.ByPersonMonth(records, month)
}

// Months lists the distinct months present in the ledger, newest first.
func (s *LedgerService) Months(ctx context.Context) []string {
	return report.Months(s.ListRecords(ctx))
}

func (s *LedgerService) publish(ctx context.Context, ev notify.LedgerEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		// Notifications are best-effort; the write already succeeded.
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			"kind", ev.Kind, log.FieldError, err)
	}
}

func (s *LedgerService) Close() error {
	return s.publisher.Close()
}
