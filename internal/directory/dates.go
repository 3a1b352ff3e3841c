package directory

import (
	"fmt"
	"time"
)

// startDateFormat renders "Mar-2025".
const startDateFormat = "Jan-2006"

// DefaultStartDateCount is how many future months are offered as candidate
// start dates.
const DefaultStartDateCount = 4

// NextStartDates returns candidate start dates: the reference instant
// advanced by 1..count whole calendar months, each formatted "Jan-2006".
// Day-of-month is clamped to the target month's last valid day, so a
// Jan 31 reference yields Feb 28 (or 29), not an overflow into March.
func NextStartDates(ref time.Time, count int) []string {
	if count <= 0 {
		count = DefaultStartDateCount
	}
	dates := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		dates = append(dates, addMonthsClamped(ref, i).Format(startDateFormat))
	}
	return dates
}

// addMonthsClamped advances t by whole calendar months. Unlike
// time.Time.AddDate it never normalizes past month end.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// NormalizeDayMonth converts a bare "Jan 2" label into an ISO date,
// inferring the year relative to now: months before the current month get
// the current year, the current month onwards gets next year. (Matches the
// portal's historical behavior for yearless labels typed by staff.)
func NormalizeDayMonth(s string, now time.Time) (string, error) {
	parsed, err := time.Parse("Jan 2", s)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %q", s)
	}

	year := now.Year() + 1
	if parsed.Month() < now.Month() {
		year = now.Year()
	}

	d := time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return d.Format("2006-01-02"), nil
}
