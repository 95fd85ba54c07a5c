package report

import (
	"testing"
	"time"
)

func TestDailyInsights(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   endOfDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
	th := InsightThresholds{LargeDailyExpenseCents: 50000}

	t.Run("within threshold", func(t *testing.T) {
		idx := &SpendIndex{IncomeCents: 100000, ExpenseCents: 40000}
		got := dailyInsights(idx, w, th)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].Status != StatusNeutral {
			t.Errorf("avg status = %v, want neutral", got[0].Status)
		}
		if got[1].Status != StatusPositive {
			t.Errorf("balance status = %v, want positive", got[1].Status)
		}
	})

	t.Run("heavy spending", func(t *testing.T) {
		idx := &SpendIndex{IncomeCents: 100000, ExpenseCents: 600000}
		got := dailyInsights(idx, w, th)
		if got[0].Status != StatusWarning {
			t.Errorf("avg status = %v, want warning", got[0].Status)
		}
		if got[1].Status != StatusWarning {
			t.Errorf("balance status = %v, want warning", got[1].Status)
		}
	})
}

func TestMonthlyInsights(t *testing.T) {
	tests := []struct {
		name         string
		idx          SpendIndex
		wantStatuses []InsightStatus
	}{
		{
			name: "healthy month",
			idx: SpendIndex{
				IncomeCents: 1000000, ExpenseCents: 700000,
				FixedExpenseCents: 300000, VariableExpenseCents: 400000,
			},
			wantStatuses: []InsightStatus{StatusPositive, StatusNeutral, StatusPositive},
		},
		{
			name: "fixed costs dominate",
			idx: SpendIndex{
				IncomeCents: 1000000, ExpenseCents: 950000,
				FixedExpenseCents: 700000, VariableExpenseCents: 250000,
			},
			wantStatuses: []InsightStatus{StatusNeutral, StatusWarning, StatusWarning},
		},
		{
			name: "overspending",
			idx: SpendIndex{
				IncomeCents: 500000, ExpenseCents: 600000,
				FixedExpenseCents: 200000, VariableExpenseCents: 400000,
			},
			wantStatuses: []InsightStatus{StatusWarning, StatusNeutral, StatusWarning},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthlyInsights(&tt.idx)
			if len(got) != len(tt.wantStatuses) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantStatuses))
			}
			for i, want := range tt.wantStatuses {
				if got[i].Status != want {
					t.Errorf("insight[%d] %q status = %v, want %v", i, got[i].Title, got[i].Status, want)
				}
			}
		})
	}
}

func TestMonthlyInsightsBorrowingCapacity(t *testing.T) {
	// 35% of 100,000.00 euro income minus 20,000.00 fixed leaves exactly
	// 15,000.00 for an installment.
	idx := &SpendIndex{
		IncomeCents: 10000000, ExpenseCents: 4000000,
		FixedExpenseCents: 2000000, VariableExpenseCents: 2000000,
	}
	got := monthlyInsights(idx)
	borrow := got[2]
	if borrow.Status != StatusPositive {
		t.Errorf("status = %v, want positive", borrow.Status)
	}
	if borrow.Value != "€15000,00" {
		t.Errorf("value = %q, want €15000,00", borrow.Value)
	}
}

func TestYearlyInsights(t *testing.T) {
	idx := &SpendIndex{IncomeCents: 3000000, ExpenseCents: 2500000}

	t.Run("growth", func(t *testing.T) {
		nw := NetWorthReport{Series: []NetWorthPoint{
			{NetWorthCents: 1000000}, {NetWorthCents: 1250000},
		}}
		got := yearlyInsights(idx, nw)
		if got[0].Status != StatusPositive {
			t.Errorf("growth status = %v, want positive", got[0].Status)
		}
		if got[0].Value != "25.0%" {
			t.Errorf("growth value = %q, want 25.0%%", got[0].Value)
		}
		if got[1].Status != StatusPositive {
			t.Errorf("cash status = %v, want positive", got[1].Status)
		}
	})

	t.Run("decline", func(t *testing.T) {
		nw := NetWorthReport{Series: []NetWorthPoint{
			{NetWorthCents: 1000000}, {NetWorthCents: 800000},
		}}
		got := yearlyInsights(idx, nw)
		if got[0].Status != StatusWarning {
			t.Errorf("growth status = %v, want warning", got[0].Status)
		}
	})

	t.Run("empty series", func(t *testing.T) {
		got := yearlyInsights(idx, NetWorthReport{})
		if got[0].Value != "0.0%" {
			t.Errorf("growth value = %q, want 0.0%%", got[0].Value)
		}
	})
}

func TestFormatEuroCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "€0,00"},
		{150, "€1,50"},
		{123456, "€1234,56"},
		{-2500, "-€25,00"},
	}
	for _, tt := range tests {
		if got := formatEuroCents(tt.cents); got != tt.want {
			t.Errorf("formatEuroCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
