package reports

import (
	"sort"

	"negocio/internal/core"
)

// Sum adds the selected amount over a record collection. Empty input
// sums to zero.
func Sum[T any](records []T, amount func(T) core.Money) core.Money {
	var cents int64
	for _, r := range records {
		cents += amount(r).Cents
	}
	return core.Money{Cents: cents}
}

// GroupSum sums the selected amount per group key.
func GroupSum[T any, K comparable](records []T, key func(T) K, amount func(T) core.Money) map[K]core.Money {
	groups := make(map[K]core.Money)
	for _, r := range records {
		k := key(r)
		groups[k] = groups[k].Add(amount(r))
	}
	return groups
}

// RankedTotal is one entry of a descending ranking.
type RankedTotal[K comparable] struct {
	Key   K
	Total core.Money
}

// RankBySum groups and sums like GroupSum, then orders the groups by
// descending total. Groups with equal totals keep the order in which
// their key first appeared in the input.
func RankBySum[T any, K comparable](records []T, key func(T) K, amount func(T) core.Money) []RankedTotal[K] {
	totals := make(map[K]core.Money)
	firstSeen := make(map[K]int)
	var order []K
	for i, r := range records {
		k := key(r)
		if _, ok := totals[k]; !ok {
			firstSeen[k] = i
			order = append(order, k)
		}
		totals[k] = totals[k].Add(amount(r))
	}

	ranked := make([]RankedTotal[K], 0, len(order))
	for _, k := range order {
		ranked = append(ranked, RankedTotal[K]{Key: k, Total: totals[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total.Cents != ranked[j].Total.Cents {
			return ranked[i].Total.Cents > ranked[j].Total.Cents
		}
		return firstSeen[ranked[i].Key] < firstSeen[ranked[j].Key]
	})
	return ranked
}

// Percentage returns part/whole*100, or 0 when the whole is 0. Never
// NaN or infinite; rounding is left to the presentation boundary.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// MarginResult is the net result and margin of a revenue/expense pair.
type MarginResult struct {
	Net       core.Money
	MarginPct float64
}

// Margin computes net = revenue - expenses and the margin as a share of
// revenue. net + expenses == revenue holds exactly: the arithmetic stays
// in integer cents.
func Margin(revenue, expenses core.Money) MarginResult {
	net := revenue.Sub(expenses)
	return MarginResult{
		Net:       net,
		MarginPct: Percentage(net.Cents, revenue.Cents),
	}
}
