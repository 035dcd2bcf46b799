package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical storage and display format for record dates.
const DateLayout = "2006-01-02"

// DefaultFuelRate is the per-kilometer fuel rate used when no rate has been
// configured yet (yen per km).
var DefaultFuelRate = decimal.RequireFromString("15.0")

type (
	Date struct {
		time.Time
	}

	// Record is a single travel-expense line item. Records are append-only:
	// edits are delete-then-recreate, never in-place mutation. Total is the
	// integer yen amount computed at creation time; the fuel rate in effect
	// back then is not stored, so a later rate change does not retroactively
	// change stored totals.
	Record struct {
		Person     string
		Date       Date
		Route      string
		DistanceKm decimal.Decimal
		TollFee    decimal.Decimal
		Total      int64
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyPerson   = errors.New("empty person")
	ErrNegativeValue = errors.New("negative amount")
	ErrEmptyAmounts  = errors.New("record needs a distance or a toll fee")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Format renders the date in the canonical YYYY-MM-DD form.
func (d Date) Format() string {
	return d.Time.Format(DateLayout)
}

// MonthKey returns the YYYY-MM grouping key for this date.
func (d Date) MonthKey() string {
	return d.Time.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Person) == "" {
		return ErrEmptyPerson
	}
	if len(r.Route) > 200 {
		return errors.New("route too long (max 200 characters)")
	}
	if r.DistanceKm.IsNegative() || r.TollFee.IsNegative() || r.Total < 0 {
		return ErrNegativeValue
	}
	if r.DistanceKm.IsZero() && r.TollFee.IsZero() {
		return ErrEmptyAmounts
	}
	return nil
}
