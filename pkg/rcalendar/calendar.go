// Package rcalendar provides pure calendar facts for a given (year, month).
package rcalendar

import (
	"time"

	"github.com/paiban/gunmupyo/pkg/rerrors"
)

// Facts holds the calendar data a monthly schedule is built against.
// It carries no behavior beyond what time.Time already knows; it exists
// so the rest of the system never re-derives days-in-month or weekdays
// from scratch.
type Facts struct {
	Year            int
	Month           time.Month
	NumDays         int
	FirstDayWeekday time.Weekday // weekday of day 1
	LastDayWeekday  time.Weekday // weekday of the last day
	Weekdays        []time.Weekday // Weekdays[d] is the weekday of day d+1 (0-indexed)
}

// For computes the calendar facts for (year, month). year must be in
// [2000,2100] and month in [1,12]; anything else is InvalidInput.
func For(year, month int) (Facts, error) {
	if year < 2000 || year > 2100 {
		return Facts{}, rerrors.InvalidInput("year", "must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return Facts{}, rerrors.InvalidInput("month", "must be between 1 and 12")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of next month == last day of this month
	last := first.AddDate(0, 1, -1)
	numDays := last.Day()

	weekdays := make([]time.Weekday, numDays)
	for d := 0; d < numDays; d++ {
		weekdays[d] = first.AddDate(0, 0, d).Weekday()
	}

	return Facts{
		Year:            year,
		Month:           time.Month(month),
		NumDays:         numDays,
		FirstDayWeekday: first.Weekday(),
		LastDayWeekday:  last.Weekday(),
		Weekdays:        weekdays,
	}, nil
}

// WeekdayName returns the English weekday name, used when echoing
// config facts back to the caller.
func (f Facts) WeekdayName(w time.Weekday) string {
	return w.String()
}
