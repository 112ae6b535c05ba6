package reports

import (
	"context"
	"time"

	"negocio/internal/core"
	"negocio/internal/log"
)

// FinancialReport joins sales, expenses and withdrawals over the range
// into the period overview: totals, net profit, general balance,
// margins, 7-day trends, the revenue projection when the range touches
// the current month, and a per-day breakdown capped at
// DailyBreakdownCap days.
func (s *Service) FinancialReport(ctx context.Context, start, end time.Time) (*FinancialReport, error) {
	now := s.clock.Now()
	start, end = s.defaultRange(start, end, now)

	data, err := s.fetchRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	completed := completedSales(data.sales)
	totalRevenue := Sum(completed, saleAmount)
	totalExpenses := Sum(data.expenses, expenseAmount)
	totalWithdrawals := Sum(data.withdrawals, withdrawalAmount)
	margin := Margin(totalRevenue, totalExpenses)

	// Trend and projection need data around "now"; re-fetch when the
	// requested range does not cover it.
	winStart, winEnd := TrendWindow(now)
	monthStart := FirstOfMonth(now)
	if monthStart.Before(winStart) {
		winStart = monthStart
	}
	curSales, curExpenses, err := s.fetchCurrent(ctx, data, start, end, winStart, winEnd)
	if err != nil {
		return nil, err
	}
	curCompleted := completedSales(curSales)

	monthToDate := Sum(filterRange(curCompleted, saleDate, monthStart, EndOfDay(now)), saleAmount)

	report := &FinancialReport{
		Start:             start,
		End:               end,
		TotalRevenue:      totalRevenue,
		TotalExpenses:     totalExpenses,
		TotalWithdrawals:  totalWithdrawals,
		NetProfit:         margin.Net,
		GeneralBalance:    margin.Net.Sub(totalWithdrawals),
		ProfitMarginPct:   margin.MarginPct,
		ExpensePct:        Percentage(totalExpenses.Cents, totalRevenue.Cents),
		RevenueTrend:      Trend(curCompleted, saleDate, saleAmount, now),
		ExpenseTrend:      Trend(curExpenses, expenseDate, expenseAmount, now),
		RevenueProjection: Projection(monthToDate, now, start, end),
		Daily:             dailyBreakdown(completed, data.expenses, data.withdrawals, start, end),
	}

	s.logger.DebugContext(ctx, "financial report assembled",
		log.FieldRangeStart, DayKey(start),
		log.FieldRangeEnd, DayKey(end),
		"daily_rows", len(report.Daily))
	return report, nil
}

// dailyBreakdown builds the per-day table for [start, end]. Every
// calendar day in range gets a row, empty days included. Ranges above
// the cap get no table at all; the summary totals still cover the full
// range.
func dailyBreakdown(sales []core.Sale, expenses []core.Expense, withdrawals []core.Withdrawal, start, end time.Time) []DailyBreakdownRow {
	days := DaysBetween(start, end)
	if len(days) == 0 || len(days) > DailyBreakdownCap {
		return nil
	}

	salesIdx := IndexByDay(sales, saleDate)
	expenseIdx := IndexByDay(expenses, expenseDate)
	withdrawalIdx := IndexByDay(withdrawals, func(w core.Withdrawal) time.Time { return w.Date })

	rows := make([]DailyBreakdownRow, 0, len(days))
	for _, day := range days {
		key := DayKey(day)
		revenue := Sum(salesIdx[key], saleAmount)
		spent := Sum(expenseIdx[key], expenseAmount)
		withdrawn := Sum(withdrawalIdx[key], withdrawalAmount)
		rows = append(rows, DailyBreakdownRow{
			Day:         key,
			Revenue:     revenue,
			Expenses:    spent,
			Withdrawals: withdrawn,
			Balance:     revenue.Sub(spent).Sub(withdrawn),
		})
	}
	return rows
}
