// Package calendar holds the date arithmetic shared by the justification
// and entry log features: business day counting, civil dates on the wire and
// relative date presets.
package calendar

import "time"

// Truncate strips the time of day, keeping t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// civil maps t to midnight UTC of the same calendar day so that stepping day
// by day never crosses a DST transition.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// BusinessDays counts the weekdays in [start, end), comparing at day
// granularity. ok is false when end is not strictly after start; callers
// must treat that as an invalid range, not as zero days.
func BusinessDays(start, end time.Time) (days int, ok bool) {
	from, to := civil(start), civil(end)
	if !to.After(from) {
		return 0, false
	}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			days++
		}
	}
	return days, true
}

// BusinessDaysBetween is BusinessDays over civil dates.
func BusinessDaysBetween(start, end Date) (int, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	return BusinessDays(start.Time, end.Time)
}
