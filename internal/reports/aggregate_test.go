package reports

import (
	"testing"
	"time"

	"negocio/internal/core"
)

func expense(day int, category core.ExpenseCategory, cents int64) core.Expense {
	return core.Expense{
		Date:          date(2025, time.March, day),
		Category:      category,
		Amount:        core.Money{Cents: cents},
		Description:   "test expense",
		PaymentMethod: core.PaymentCash,
	}
}

func TestSum(t *testing.T) {
	expenses := []core.Expense{
		expense(1, core.CategorySupplies, 1000),
		expense(2, core.CategoryRent, 2500),
		expense(3, core.CategoryOther, 499),
	}

	if got := Sum(expenses, expenseAmount); got.Cents != 3999 {
		t.Errorf("Sum() = %d, want 3999", got.Cents)
	}
	if got := Sum(nil, expenseAmount); got.Cents != 0 {
		t.Errorf("Sum(nil) = %d, want 0", got.Cents)
	}
}

func TestGroupSum(t *testing.T) {
	expenses := []core.Expense{
		expense(1, core.CategorySupplies, 1000),
		expense(2, core.CategorySupplies, 500),
		expense(3, core.CategoryRent, 2500),
	}

	groups := GroupSum(expenses, func(e core.Expense) core.ExpenseCategory { return e.Category }, expenseAmount)

	if len(groups) != 2 {
		t.Fatalf("GroupSum() produced %d groups, want 2", len(groups))
	}
	if groups[core.CategorySupplies].Cents != 1500 {
		t.Errorf("supplies total = %d, want 1500", groups[core.CategorySupplies].Cents)
	}
	if groups[core.CategoryRent].Cents != 2500 {
		t.Errorf("rent total = %d, want 2500", groups[core.CategoryRent].Cents)
	}
}

func TestRankBySum(t *testing.T) {
	expenses := []core.Expense{
		expense(1, core.CategorySupplies, 1000),
		expense(2, core.CategoryRent, 3000),
		expense(3, core.CategorySupplies, 500),
		expense(4, core.CategoryOther, 1500),
	}

	ranked := RankBySum(expenses, func(e core.Expense) core.ExpenseCategory { return e.Category }, expenseAmount)

	wantOrder := []core.ExpenseCategory{core.CategoryRent, core.CategorySupplies, core.CategoryOther}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("RankBySum() returned %d entries, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].Key != want {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].Key, want)
		}
	}
}

func TestRankBySumTiesKeepFirstSeenOrder(t *testing.T) {
	expenses := []core.Expense{
		expense(1, core.CategoryServices, 1000),
		expense(2, core.CategoryMaintenance, 1000),
	}

	ranked := RankBySum(expenses, func(e core.Expense) core.ExpenseCategory { return e.Category }, expenseAmount)

	if ranked[0].Key != core.CategoryServices || ranked[1].Key != core.CategoryMaintenance {
		t.Errorf("tie order = [%s %s], want first-seen order [services maintenance]", ranked[0].Key, ranked[1].Key)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int64
		whole int64
		want  float64
	}{
		{"simple", 30, 100, 30},
		{"over 100", 150, 100, 150},
		{"zero whole", 500, 0, 0},
		{"negative part zero whole", -500, 0, 0},
		{"negative part", -50, 100, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.part, tt.whole); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
			}
		})
	}
}

func TestMarginIsExact(t *testing.T) {
	tests := []struct {
		name     string
		revenue  int64
		expenses int64
		wantNet  int64
		wantPct  float64
	}{
		{"profit", 100000, 30000, 70000, 70},
		{"loss", 30000, 50000, -20000, float64(-20000) / 30000 * 100},
		{"zero revenue", 0, 500, -500, 0},
		{"odd cents", 100001, 33334, 66667, float64(66667) / 100001 * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Margin(core.Money{Cents: tt.revenue}, core.Money{Cents: tt.expenses})
			if got.Net.Cents != tt.wantNet {
				t.Errorf("net = %d, want %d", got.Net.Cents, tt.wantNet)
			}
			if got.MarginPct != tt.wantPct {
				t.Errorf("margin pct = %v, want %v", got.MarginPct, tt.wantPct)
			}
			// net + expenses recomposes revenue exactly
			if got.Net.Cents+tt.expenses != tt.revenue {
				t.Errorf("net + expenses = %d, want %d", got.Net.Cents+tt.expenses, tt.revenue)
			}
		})
	}
}
