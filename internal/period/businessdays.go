package period

import "time"

// Holidays lists the non-working days (YYYY-MM-DD) excluded from business-day
// counts: the 2026 national holidays and Carnival.
var Holidays = []string{
	"2026-02-16", "2026-02-17", "2026-02-18",
	"2026-01-01", "2026-04-03", "2026-04-21", "2026-05-01", "2026-06-04",
	"2026-09-07", "2026-10-12", "2026-11-02", "2026-11-15", "2026-11-20", "2026-12-25",
}

// TrackingStart is the first day work was tracked from.
var TrackingStart = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

// BusinessDays counts the weekdays in [start, end] that are not holidays.
// Only the calendar date of start and end matters. Returns 0 when end is
// before start.
func BusinessDays(start, end time.Time, holidays []string) int {
	skip := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		skip[h] = true
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	count := 0

	for !day.After(last) {
		weekday := day.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday && !skip[day.Format(dateLayout)] {
			count++
		}

		day = day.AddDate(0, 0, 1)
	}

	return count
}

// DaysWorkedUntil returns the business days from [TrackingStart] through the
// day before now.
func DaysWorkedUntil(now time.Time) int {
	return BusinessDays(TrackingStart, now.AddDate(0, 0, -1), Holidays)
}
