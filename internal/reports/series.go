package reports

import "time"

// IndexByDay buckets time-stamped records under their canonical day key.
// Built once per source series per report, it turns the per-day lookups
// of the assemblers into O(1) map hits: O(n + d) for a report over n
// records and d days instead of O(n*d) re-filtering.
//
// Pure function of its input; record order within a day is preserved.
func IndexByDay[T any](records []T, dateOf func(T) time.Time) map[string][]T {
	index := make(map[string][]T, len(records))
	for _, r := range records {
		key := DayKey(dateOf(r))
		index[key] = append(index[key], r)
	}
	return index
}
