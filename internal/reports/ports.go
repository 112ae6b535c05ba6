package reports

import (
	"context"
	"time"

	"negocio/internal/core"
)

// ExpenseFilter narrows an expense query. Zero values mean "no filter".
type ExpenseFilter struct {
	Start    time.Time
	End      time.Time
	Category core.ExpenseCategory
}

// WithdrawalFilter narrows a withdrawal query. Zero values mean "no filter".
type WithdrawalFilter struct {
	Account core.Account
	Start   time.Time
	End     time.Time
}

// Store is the read-only view of the persistence collaborator the
// reporting engine depends on. Implementations return immutable record
// snapshots; a failed fetch aborts the whole report.
type Store interface {
	SalesByDateRange(ctx context.Context, start, end time.Time) ([]core.Sale, error)
	Expenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
	Withdrawals(ctx context.Context, f WithdrawalFilter) ([]core.Withdrawal, error)
}

// Clock abstracts "now" so trend windows and projections stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
