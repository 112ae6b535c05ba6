package reports

import "time"

// dayKeyLayout is the canonical bucket key for time-stamped records.
const dayKeyLayout = "2006-01-02"

const monthKeyLayout = "2006-01"

// DayKey returns the canonical YYYY-MM-DD key for a timestamp in its
// local calendar day.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// MonthKey returns the canonical YYYY-MM key for a timestamp.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// StartOfDay normalizes a timestamp to 00:00:00.000 local.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a timestamp to 23:59:59.999 local, so inclusive
// range filters catch every record on the day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// NormalizeRange widens [start, end] to full-day boundaries regardless
// of the time-of-day on the inputs.
func NormalizeRange(start, end time.Time) (time.Time, time.Time) {
	return StartOfDay(start), EndOfDay(end)
}

// DaysBetween returns the ordered day boundaries covering [start, end]
// inclusive, one entry per calendar day. An inverted range yields an
// empty sequence, not an error; aggregation over it produces zeroes.
func DaysBetween(start, end time.Time) []time.Time {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		return nil
	}
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FirstOfMonth returns 00:00 on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return EndOfDay(FirstOfMonth(t).AddDate(0, 1, -1))
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	return FirstOfMonth(t).AddDate(0, 1, -1).Day()
}

// DaysRemainingInMonth counts the days of t's month strictly after t's
// day. On the last day of the month it is 0.
func DaysRemainingInMonth(t time.Time) int {
	return DaysInMonth(t) - t.Day()
}

// LastThreeMonths returns the first-of-month boundaries for the three
// trailing calendar months ending with (and including) now's month, in
// ascending order.
func LastThreeMonths(now time.Time) []time.Time {
	current := FirstOfMonth(now)
	return []time.Time{
		current.AddDate(0, -2, 0),
		current.AddDate(0, -1, 0),
		current,
	}
}
