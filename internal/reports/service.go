// Package reports implements the read-time financial reporting engine:
// date bucketing, series indexing, metric aggregation, trend/projection
// calculation and the three report assemblers built on top of them.
//
// Every report call is stateless and idempotent: a pure function of the
// records the store holds at call time. The only concurrency is the
// fan-out fetch of the source series per report.
package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"negocio/internal/core"
	"negocio/internal/log"
)

// Service assembles reports from the storage collaborator. Dependencies
// are passed explicitly; there is no package-level wiring.
type Service struct {
	store  Store
	clock  Clock
	logger *log.Logger
}

func NewService(store Store, clock Clock, logger *log.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentReports)
	}
	return &Service{store: store, clock: clock, logger: logger}
}

// rangeData holds one report's source series, fetched together.
type rangeData struct {
	sales       []core.Sale
	expenses    []core.Expense
	withdrawals []core.Withdrawal
}

// fetchRange loads all three source series for [start, end] concurrently.
// Any failed fetch fails the whole report; there are no partial results
// and no retries here.
func (s *Service) fetchRange(ctx context.Context, start, end time.Time) (rangeData, error) {
	var data rangeData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sales, err := s.store.SalesByDateRange(ctx, start, end)
		if err != nil {
			return fmt.Errorf("fetch sales: %w", err)
		}
		data.sales = sales
		return nil
	})
	g.Go(func() error {
		expenses, err := s.store.Expenses(ctx, ExpenseFilter{Start: start, End: end})
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		data.expenses = expenses
		return nil
	})
	g.Go(func() error {
		withdrawals, err := s.store.Withdrawals(ctx, WithdrawalFilter{Start: start, End: end})
		if err != nil {
			return fmt.Errorf("fetch withdrawals: %w", err)
		}
		data.withdrawals = withdrawals
		return nil
	})
	if err := g.Wait(); err != nil {
		return rangeData{}, err
	}
	return data, nil
}

// fetchSalesExpenses loads sales and expenses for [start, end]
// concurrently, for reports that never touch withdrawals.
func (s *Service) fetchSalesExpenses(ctx context.Context, start, end time.Time) ([]core.Sale, []core.Expense, error) {
	var (
		sales    []core.Sale
		expenses []core.Expense
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if sales, err = s.store.SalesByDateRange(ctx, start, end); err != nil {
			return fmt.Errorf("fetch sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if expenses, err = s.store.Expenses(ctx, ExpenseFilter{Start: start, End: end}); err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sales, expenses, nil
}

// fetchCurrent returns sales and expenses covering the now-anchored
// window [winStart, winEnd], reusing the report's own fetch when the
// requested range already covers the window, and issuing a second
// fan-out otherwise. Trend and projection data are always anchored to
// "now", independent of the requested range.
func (s *Service) fetchCurrent(ctx context.Context, data rangeData, start, end, winStart, winEnd time.Time) ([]core.Sale, []core.Expense, error) {
	if !start.After(winStart) && !end.Before(winEnd) {
		return data.sales, data.expenses, nil
	}
	return s.fetchSalesExpenses(ctx, winStart, winEnd)
}

// defaultRange fills absent bounds with "today" and widens the result
// to full-day boundaries.
func (s *Service) defaultRange(start, end, now time.Time) (time.Time, time.Time) {
	if start.IsZero() {
		start = now
	}
	if end.IsZero() {
		end = now
	}
	return NormalizeRange(start, end)
}

// Selectors shared by the assemblers.

func saleDate(s core.Sale) time.Time         { return s.Date }
func saleAmount(s core.Sale) core.Money      { return s.Total() }
func expenseDate(e core.Expense) time.Time   { return e.Date }
func expenseAmount(e core.Expense) core.Money { return e.Amount }
func withdrawalAmount(w core.Withdrawal) core.Money { return w.Amount }

// completedSales keeps only sales that count toward revenue.
func completedSales(sales []core.Sale) []core.Sale {
	var out []core.Sale
	for _, sale := range sales {
		if sale.Status == core.SaleCompleted {
			out = append(out, sale)
		}
	}
	return out
}

// filterRange keeps the records dated within [start, end].
func filterRange[T any](records []T, dateOf func(T) time.Time, start, end time.Time) []T {
	var out []T
	for _, r := range records {
		d := dateOf(r)
		if !d.Before(start) && !d.After(end) {
			out = append(out, r)
		}
	}
	return out
}
