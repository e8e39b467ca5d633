package schedule

import "time"

// DailyStrategy falls due every day
type DailyStrategy struct{}

func (s *DailyStrategy) Type() Cadence { return CadenceDaily }

func (s *DailyStrategy) Validate(days []int) error { return nil }

func (s *DailyStrategy) Next(from time.Time, days []int) (time.Time, error) {
	return from.AddDate(0, 0, 1), nil
}

// WeeklyStrategy falls due on the listed weekdays (0 = Sunday)
type WeeklyStrategy struct{}

func (s *WeeklyStrategy) Type() Cadence { return CadenceWeekly }

func (s *WeeklyStrategy) Validate(days []int) error {
	if len(days) == 0 {
		return ErrNoPaymentDays
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return ErrWeekdayRange
		}
	}
	return nil
}

// Next picks the next listed weekday after today, wrapping into next week
func (s *WeeklyStrategy) Next(from time.Time, days []int) (time.Time, error) {
	if err := s.Validate(days); err != nil {
		return time.Time{}, err
	}

	today := int(from.Weekday())
	sorted := sortedCopy(days)
	for _, d := range sorted {
		if d > today {
			return from.AddDate(0, 0, d-today), nil
		}
	}
	return from.AddDate(0, 0, 7-today+sorted[0]), nil
}

// BiweeklyStrategy falls due on days in the first half of the month, with
// the 16th as the mid-month fallback.
type BiweeklyStrategy struct{}

func (s *BiweeklyStrategy) Type() Cadence { return CadenceBiweekly }

func (s *BiweeklyStrategy) Validate(days []int) error {
	if len(days) == 0 {
		return ErrNoPaymentDays
	}
	for _, d := range days {
		if d < 1 || d > 15 {
			return ErrFirstHalfOfMonth
		}
	}
	return nil
}

func (s *BiweeklyStrategy) Next(from time.Time, days []int) (time.Time, error) {
	if err := s.Validate(days); err != nil {
		return time.Time{}, err
	}

	sorted := sortedCopy(days)
	day := from.Day()
	if day <= 15 {
		for _, d := range sorted {
			if d > day {
				return dateIn(from, from.Year(), from.Month(), d), nil
			}
		}
		return dateIn(from, from.Year(), from.Month(), 16), nil
	}

	year, month := nextMonth(from)
	return dateIn(from, year, month, sorted[0]), nil
}

// MonthlyStrategy falls due on the listed days of the month
type MonthlyStrategy struct{}

func (s *MonthlyStrategy) Type() Cadence { return CadenceMonthly }

func (s *MonthlyStrategy) Validate(days []int) error {
	if len(days) == 0 {
		return ErrNoPaymentDays
	}
	for _, d := range days {
		if d < 1 || d > 31 {
			return ErrDayOfMonthRange
		}
	}
	return nil
}

func (s *MonthlyStrategy) Next(from time.Time, days []int) (time.Time, error) {
	if err := s.Validate(days); err != nil {
		return time.Time{}, err
	}

	// Days past the end of the month fall on its last day.
	sorted := sortedCopy(days)
	last := daysIn(from.Year(), from.Month(), from.Location())
	for _, d := range sorted {
		if min(d, last) > from.Day() {
			return dateIn(from, from.Year(), from.Month(), d), nil
		}
	}

	year, month := nextMonth(from)
	return dateIn(from, year, month, sorted[0]), nil
}
