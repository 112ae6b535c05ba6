package reports

import (
	"time"

	"negocio/internal/core"
)

// DailyBreakdownCap bounds the per-day breakdown table of the financial
// report. Ranges spanning more days omit the table; summary totals still
// cover the full range.
const DailyBreakdownCap = 90

// TopExpensesLimit bounds the "highest expenses" list of the advanced
// expense report.
const TopExpensesLimit = 10

type (
	// DailyBreakdownRow is one day of the financial report's breakdown
	// table. Balance is signed: revenue - expenses - withdrawals.
	DailyBreakdownRow struct {
		Day         string     `json:"date"`
		Revenue     core.Money `json:"revenue"`
		Expenses    core.Money `json:"expenses"`
		Withdrawals core.Money `json:"withdrawals"`
		Balance     core.Money `json:"balance"`
	}

	// FinancialReport is the period overview joining the three source
	// series. Projection is absent (nil) when the range does not touch
	// the current month.
	FinancialReport struct {
		Start             time.Time           `json:"start"`
		End               time.Time           `json:"end"`
		TotalRevenue      core.Money          `json:"total_revenue"`
		TotalExpenses     core.Money          `json:"total_expenses"`
		TotalWithdrawals  core.Money          `json:"total_withdrawals"`
		NetProfit         core.Money          `json:"net_profit"`
		GeneralBalance    core.Money          `json:"general_balance"`
		ProfitMarginPct   float64             `json:"profit_margin_pct"`
		ExpensePct        float64             `json:"expense_pct"`
		RevenueTrend      []DailyPoint        `json:"revenue_trend"`
		ExpenseTrend      []DailyPoint        `json:"expense_trend"`
		RevenueProjection *core.Money         `json:"revenue_projection,omitempty"`
		Daily             []DailyBreakdownRow `json:"daily,omitempty"`
	}

	// CategoryShare is one category's share of total expenses.
	CategoryShare struct {
		Category   core.ExpenseCategory `json:"category"`
		Total      core.Money           `json:"total"`
		Percentage float64              `json:"percentage"`
	}

	// RecorderTotal is the expense total attributed to one recorder.
	RecorderTotal struct {
		RecordedBy string     `json:"recorded_by"`
		Total      core.Money `json:"total"`
	}

	// MonthlyComparison compares expenses against revenue for one
	// calendar month. Percentage is expenses as a share of revenue.
	MonthlyComparison struct {
		Month         string     `json:"month"`
		TotalExpenses core.Money `json:"total_expenses"`
		TotalRevenue  core.Money `json:"total_revenue"`
		Percentage    float64    `json:"percentage"`
	}

	// TopExpense is one entry of the highest-expenses ranking.
	TopExpense struct {
		Date        string               `json:"date"`
		Description string               `json:"description"`
		Category    core.ExpenseCategory `json:"category"`
		Amount      core.Money           `json:"amount"`
		RecordedBy  string               `json:"recorded_by,omitempty"`
	}

	AdvancedExpenseReport struct {
		Start             time.Time           `json:"start"`
		End               time.Time           `json:"end"`
		TotalExpenses     core.Money          `json:"total_expenses"`
		TotalRevenue      core.Money          `json:"total_revenue"`
		ExpensePct        float64             `json:"expense_pct"`
		ByCategory        []CategoryShare     `json:"by_category"`
		ByRecorder        []RecorderTotal     `json:"by_recorder"`
		MonthlyComparison []MonthlyComparison `json:"monthly_comparison"`
		TopExpenses       []TopExpense        `json:"top_expenses"`
		ExpenseTrend      []DailyPoint        `json:"expense_trend"`
		ExpenseProjection *core.Money         `json:"expense_projection,omitempty"`
	}

	// PartnerBalance carries one partner account's side of the fixed
	// 50/50 revenue split. TransfersReceived and CardExpenseShare are
	// informational and never part of TotalIncome.
	PartnerBalance struct {
		Account           core.Account `json:"account"`
		TotalIncome       core.Money   `json:"total_income"`
		TotalWithdrawals  core.Money   `json:"total_withdrawals"`
		AvailableBalance  core.Money   `json:"available_balance"`
		TransfersReceived core.Money   `json:"transfers_received"`
		CardExpenseShare  core.Money   `json:"card_expense_share"`
	}

	// WithdrawalEntry is one row of the partner report's history.
	WithdrawalEntry struct {
		Date        string       `json:"date"`
		Account     core.Account `json:"account"`
		Amount      core.Money   `json:"amount"`
		Description string       `json:"description"`
	}

	PartnerBalanceReport struct {
		Start               time.Time         `json:"start"`
		End                 time.Time         `json:"end"`
		CombinedRevenue     core.Money        `json:"combined_revenue"`
		CombinedWithdrawals core.Money        `json:"combined_withdrawals"`
		Accounts            []PartnerBalance  `json:"accounts"`
		History             []WithdrawalEntry `json:"history"`
	}
)
