package util

import "time"

// DateOnly truncates a time to its calendar date in UTC. Schedule comparisons
// are date-only: a template due "today" is due regardless of time of day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate returns the date for the target day in a given month, clamping
// to the month's last day when the month is shorter (e.g. day 31 in February
// returns Feb 28/29). Month values outside 1-12 are normalized, so callers
// can pass month+1 across a year boundary.
func ClampedDate(year int, month time.Month, day int) time.Time {
	norm := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := LastDayOfMonth(norm.Year(), norm.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(norm.Year(), norm.Month(), day, 0, 0, 0, 0, time.UTC)
}
