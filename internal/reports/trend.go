package reports

import (
	"time"

	"negocio/internal/core"
)

// TrendDays is the length of the trailing trend window.
const TrendDays = 7

// DailyPoint is one day of a bucketed series. Day is a canonical
// YYYY-MM-DD key.
type DailyPoint struct {
	Day    string     `json:"date"`
	Amount core.Money `json:"amount"`
}

// TrendWindow returns the trailing window of TrendDays calendar days
// ending on now's day. The window is anchored to "now" regardless of the
// report's requested range: a January report still trends the last seven
// days from today.
func TrendWindow(now time.Time) (start, end time.Time) {
	return StartOfDay(now.AddDate(0, 0, -(TrendDays - 1))), EndOfDay(now)
}

// Trend sums the selected amount per day over the trailing window,
// producing exactly TrendDays points ending today. Days without records
// appear with amount zero; no day is skipped.
func Trend[T any](records []T, dateOf func(T) time.Time, amount func(T) core.Money, now time.Time) []DailyPoint {
	start, end := TrendWindow(now)
	index := IndexByDay(records, dateOf)

	days := DaysBetween(start, end)
	points := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		key := DayKey(day)
		points = append(points, DailyPoint{
			Day:    key,
			Amount: Sum(index[key], amount),
		})
	}
	return points
}

// Projection estimates the revenue still to come this month: the daily
// run rate so far times the days remaining. It returns nil ("not applicable",
// distinct from a projection of zero) unless the report range intersects
// the current calendar month, and never divides by zero: with no elapsed
// days there is no projection.
func Projection(monthToDate core.Money, now, reportStart, reportEnd time.Time) *core.Money {
	first := FirstOfMonth(now)
	last := EndOfMonth(now)
	if reportEnd.Before(first) || reportStart.After(last) {
		return nil
	}

	elapsed := now.Day() // days from the 1st through today, inclusive
	if elapsed < 1 {
		return nil
	}
	remaining := DaysRemainingInMonth(now)

	projected := core.Money{Cents: monthToDate.Cents * int64(remaining) / int64(elapsed)}
	return &projected
}
