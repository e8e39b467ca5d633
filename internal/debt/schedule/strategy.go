// Package schedule computes installment due dates for each payment cadence.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Cadence defines how often an installment falls due
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// Strategy is the interface every cadence implements
type Strategy interface {
	// Next returns the first due date strictly after from
	Next(from time.Time, days []int) (time.Time, error)

	// Type returns the cadence identifier for this strategy
	Type() Cadence

	// Validate checks the payment days make sense for this cadence
	Validate(days []int) error
}

// Factory creates cadence strategies by type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for the cadence
func (f *Factory) Create(cadence Cadence) (Strategy, error) {
	switch cadence {
	case CadenceDaily:
		return &DailyStrategy{}, nil
	case CadenceWeekly:
		return &WeeklyStrategy{}, nil
	case CadenceBiweekly:
		return &BiweeklyStrategy{}, nil
	case CadenceMonthly:
		return &MonthlyStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCadence, cadence)
	}
}

var (
	ErrUnknownCadence   = errors.New("unknown payment cadence")
	ErrNoPaymentDays    = errors.New("at least one payment day is required")
	ErrWeekdayRange     = errors.New("weekly payment days must be between 0 (Sunday) and 6 (Saturday)")
	ErrDayOfMonthRange  = errors.New("payment days must be between 1 and 31")
	ErrFirstHalfOfMonth = errors.New("biweekly payment days must be between 1 and 15")
)

func sortedCopy(days []int) []int {
	out := append([]int(nil), days...)
	sort.Ints(out)
	return out
}

// dateIn builds a date in from's location keeping its clock, clamping day
// to the last day of the month.
func dateIn(from time.Time, year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month, from.Location()); day > last {
		day = last
	}
	return time.Date(year, month, day, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// nextMonth returns the year and month following from's
func nextMonth(from time.Time) (int, time.Month) {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()).AddDate(0, 1, 0)
	return first.Year(), first.Month()
}
