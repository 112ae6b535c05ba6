package reports

import (
	"context"
	"sort"
	"time"

	"negocio/internal/core"
	"negocio/internal/log"
)

// unattributedRecorder labels expenses whose recorder was left blank in
// the "by recorder" ranking.
const unattributedRecorder = "unspecified"

// AdvancedExpenseReport breaks the range's expenses down by category and
// recorder, ranks the highest individual expenses, compares the three
// trailing calendar months against revenue, and adds the expense trend
// and projection.
func (s *Service) AdvancedExpenseReport(ctx context.Context, start, end time.Time) (*AdvancedExpenseReport, error) {
	now := s.clock.Now()
	start, end = s.defaultRange(start, end, now)

	sales, expenses, err := s.fetchSalesExpenses(ctx, start, end)
	if err != nil {
		return nil, err
	}

	completed := completedSales(sales)
	totalRevenue := Sum(completed, saleAmount)
	totalExpenses := Sum(expenses, expenseAmount)

	// The monthly comparison, trend and projection are anchored to now:
	// they need the three trailing calendar months up to today.
	months := LastThreeMonths(now)
	winStart := months[0]
	winEnd := EndOfDay(now)
	curSales, curExpenses, err := s.fetchCurrent(ctx, rangeData{sales: sales, expenses: expenses}, start, end, winStart, winEnd)
	if err != nil {
		return nil, err
	}
	curCompleted := completedSales(curSales)

	monthStart := FirstOfMonth(now)
	monthToDate := Sum(filterRange(curExpenses, expenseDate, monthStart, winEnd), expenseAmount)

	report := &AdvancedExpenseReport{
		Start:             start,
		End:               end,
		TotalExpenses:     totalExpenses,
		TotalRevenue:      totalRevenue,
		ExpensePct:        Percentage(totalExpenses.Cents, totalRevenue.Cents),
		ByCategory:        categoryShares(expenses, totalExpenses),
		ByRecorder:        recorderTotals(expenses),
		MonthlyComparison: monthlyComparison(curCompleted, curExpenses, months),
		TopExpenses:       topExpenses(expenses, TopExpensesLimit),
		ExpenseTrend:      Trend(curExpenses, expenseDate, expenseAmount, now),
		ExpenseProjection: Projection(monthToDate, now, start, end),
	}

	s.logger.DebugContext(ctx, "advanced expense report assembled",
		log.FieldRangeStart, DayKey(start),
		log.FieldRangeEnd, DayKey(end),
		"categories", len(report.ByCategory))
	return report, nil
}

// categoryShares ranks categories by total, each with its share of all
// expenses in range.
func categoryShares(expenses []core.Expense, total core.Money) []CategoryShare {
	ranked := RankBySum(expenses, func(e core.Expense) core.ExpenseCategory { return e.Category }, expenseAmount)
	shares := make([]CategoryShare, 0, len(ranked))
	for _, r := range ranked {
		shares = append(shares, CategoryShare{
			Category:   r.Key,
			Total:      r.Total,
			Percentage: Percentage(r.Total.Cents, total.Cents),
		})
	}
	return shares
}

// recorderTotals ranks whoever recorded the expenses by descending
// total spent.
func recorderTotals(expenses []core.Expense) []RecorderTotal {
	ranked := RankBySum(expenses, func(e core.Expense) string {
		if e.RecordedBy == "" {
			return unattributedRecorder
		}
		return e.RecordedBy
	}, expenseAmount)
	totals := make([]RecorderTotal, 0, len(ranked))
	for _, r := range ranked {
		totals = append(totals, RecorderTotal{RecordedBy: r.Key, Total: r.Total})
	}
	return totals
}

// monthlyComparison compares expenses against revenue for each trailing
// calendar month, current month included. Months with no revenue get a
// 0 ratio, never a division error.
func monthlyComparison(sales []core.Sale, expenses []core.Expense, months []time.Time) []MonthlyComparison {
	revByMonth := GroupSum(sales, func(s core.Sale) string { return MonthKey(s.Date) }, saleAmount)
	expByMonth := GroupSum(expenses, func(e core.Expense) string { return MonthKey(e.Date) }, expenseAmount)

	comparison := make([]MonthlyComparison, 0, len(months))
	for _, m := range months {
		key := MonthKey(m)
		revenue := revByMonth[key]
		spent := expByMonth[key]
		comparison = append(comparison, MonthlyComparison{
			Month:         key,
			TotalExpenses: spent,
			TotalRevenue:  revenue,
			Percentage:    Percentage(spent.Cents, revenue.Cents),
		})
	}
	return comparison
}

// topExpenses ranks individual expenses by amount, descending. Ties keep
// the original fetch order.
func topExpenses(expenses []core.Expense, limit int) []TopExpense {
	ranked := make([]core.Expense, len(expenses))
	copy(ranked, expenses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]TopExpense, 0, len(ranked))
	for _, e := range ranked {
		top = append(top, TopExpense{
			Date:        DayKey(e.Date),
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount,
			RecordedBy:  e.RecordedBy,
		})
	}
	return top
}
