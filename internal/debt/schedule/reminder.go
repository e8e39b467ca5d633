package schedule

import "time"

// Reminder kinds reported to sellers ahead of a due date
const (
	ReminderTwoDays = "2days"
	ReminderOneDay  = "1day"
	ReminderToday   = "today"
)

// DaysUntil counts calendar days from now to due, both taken as dates in
// now's location. Past due dates give negative values.
func DaysUntil(now, due time.Time) int {
	loc := now.Location()
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := due.In(loc)
	b := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ReminderKind maps a day count to a reminder kind, or "" when no
// reminder is due.
func ReminderKind(days int) string {
	switch days {
	case 2:
		return ReminderTwoDays
	case 1:
		return ReminderOneDay
	case 0:
		return ReminderToday
	default:
		return ""
	}
}
