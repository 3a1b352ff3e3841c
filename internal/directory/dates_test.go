package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStartDates(t *testing.T) {
	ref := time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)

	got := NextStartDates(ref, 4)

	assert.Equal(t, []string{"Feb-2025", "Mar-2025", "Apr-2025", "May-2025"}, got)
}

func TestNextStartDatesYearRollover(t *testing.T) {
	ref := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	got := NextStartDates(ref, 4)

	assert.Equal(t, []string{"Dec-2025", "Jan-2026", "Feb-2026", "Mar-2026"}, got)
}

func TestNextStartDatesDefaultCount(t *testing.T) {
	ref := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Len(t, NextStartDates(ref, 0), DefaultStartDateCount)
}

func TestAddMonthsClamped(t *testing.T) {
	// Jan 31 + 1 month lands on the last day of February, not March 2/3.
	jan31 := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-02-28", addMonthsClamped(jan31, 1).Format("2006-01-02"))

	// Leap year February keeps day 29.
	jan31leap := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", addMonthsClamped(jan31leap, 1).Format("2006-01-02"))

	// Day 31 into a 30-day month clamps to 30.
	mar31 := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-04-30", addMonthsClamped(mar31, 1).Format("2006-01-02"))

	// Days that exist in the target month pass through unchanged.
	mar15 := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-15", addMonthsClamped(mar15, 4).Format("2006-01-02"))
}

func TestNormalizeDayMonth(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	// Month before the current month: current year.
	got, err := NormalizeDayMonth("Mar 15", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", got)

	// Current month onwards: next year.
	got, err = NormalizeDayMonth("Jun 1", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", got)

	got, err = NormalizeDayMonth("Dec 31", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-31", got)
}

func TestNormalizeDayMonthInvalid(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	_, err := NormalizeDayMonth("not a date", now)
	assert.Error(t, err)

	_, err = NormalizeDayMonth("2025-03-15", now)
	assert.Error(t, err)
}
