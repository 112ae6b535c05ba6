package reports

import (
	"testing"
	"time"

	"negocio/internal/core"
)

func TestTrendAlwaysSevenPoints(t *testing.T) {
	now := date(2025, time.June, 10)

	tests := []struct {
		name     string
		expenses []core.Expense
	}{
		{"no records", nil},
		{"records inside window", []core.Expense{
			{Date: date(2025, time.June, 8), Amount: core.Money{Cents: 500}},
		}},
		{"records outside window", []core.Expense{
			{Date: date(2025, time.January, 1), Amount: core.Money{Cents: 500}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Trend(tt.expenses, expenseDate, expenseAmount, now)
			if len(points) != TrendDays {
				t.Fatalf("Trend() returned %d points, want %d", len(points), TrendDays)
			}
			if points[0].Day != "2025-06-04" {
				t.Errorf("first point = %s, want 2025-06-04", points[0].Day)
			}
			if points[len(points)-1].Day != "2025-06-10" {
				t.Errorf("last point = %s, want 2025-06-10", points[len(points)-1].Day)
			}
		})
	}
}

func TestTrendZeroFillsEmptyDays(t *testing.T) {
	now := date(2025, time.June, 10)
	expenses := []core.Expense{
		{Date: date(2025, time.June, 5), Amount: core.Money{Cents: 300}},
		{Date: date(2025, time.June, 5), Amount: core.Money{Cents: 200}},
		{Date: date(2025, time.June, 10), Amount: core.Money{Cents: 100}},
	}

	points := Trend(expenses, expenseDate, expenseAmount, now)

	byDay := make(map[string]int64)
	for _, p := range points {
		byDay[p.Day] = p.Amount.Cents
	}
	if byDay["2025-06-05"] != 500 {
		t.Errorf("2025-06-05 = %d, want 500", byDay["2025-06-05"])
	}
	if byDay["2025-06-10"] != 100 {
		t.Errorf("2025-06-10 = %d, want 100", byDay["2025-06-10"])
	}
	if byDay["2025-06-07"] != 0 {
		t.Errorf("empty day 2025-06-07 = %d, want 0", byDay["2025-06-07"])
	}
}

func TestProjection(t *testing.T) {
	// 10th of a 30-day month: 10 days elapsed, 20 remaining.
	now := date(2025, time.June, 10)

	tests := []struct {
		name        string
		monthToDate int64
		start       time.Time
		end         time.Time
		want        *int64
	}{
		{
			name:        "run rate times remaining days",
			monthToDate: 20000,
			start:       date(2025, time.June, 1),
			end:         date(2025, time.June, 10),
			want:        ptr(int64(40000)),
		},
		{
			name:        "range before current month",
			monthToDate: 20000,
			start:       date(2025, time.January, 1),
			end:         date(2025, time.January, 31),
			want:        nil,
		},
		{
			name:        "range after current month",
			monthToDate: 20000,
			start:       date(2025, time.July, 1),
			end:         date(2025, time.July, 31),
			want:        nil,
		},
		{
			name:        "range overlapping month boundary",
			monthToDate: 20000,
			start:       date(2025, time.May, 20),
			end:         date(2025, time.June, 3),
			want:        ptr(int64(40000)),
		},
		{
			name:        "zero month to date",
			monthToDate: 0,
			start:       date(2025, time.June, 1),
			end:         date(2025, time.June, 10),
			want:        ptr(int64(0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Projection(core.Money{Cents: tt.monthToDate}, now, tt.start, tt.end)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Projection() = %d, want absent", got.Cents)
				}
				return
			}
			if got == nil {
				t.Fatalf("Projection() absent, want %d", *tt.want)
			}
			if got.Cents != *tt.want {
				t.Errorf("Projection() = %d, want %d", got.Cents, *tt.want)
			}
		})
	}
}

func TestProjectionLastDayOfMonth(t *testing.T) {
	now := date(2025, time.June, 30)

	got := Projection(core.Money{Cents: 60000}, now, date(2025, time.June, 1), date(2025, time.June, 30))

	if got == nil {
		t.Fatal("Projection() absent, want present")
	}
	// Nothing remains to project.
	if got.Cents != 0 {
		t.Errorf("Projection() = %d, want 0", got.Cents)
	}
}

func ptr[T any](v T) *T { return &v }
