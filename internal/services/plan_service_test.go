package services

import (
	"context"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/memory"
)

func TestSavePlanValidates(t *testing.T) {
	svc := NewPlanService(memory.New())

	err := svc.SavePlan(context.Background(), core.BudgetPlan{Owner: "mario"})
	if err == nil {
		t.Fatal("SavePlan() = nil, want error for missing period")
	}
}

func TestGenerateDefaultPlan(t *testing.T) {
	store := memory.New()
	store.Seed(nil, []core.Category{
		{ID: "1", Name: "Spesa", Kind: core.Expense, Group: "Food", Bucket: core.Needs},
		{ID: "2", Name: "Affitto", Kind: core.Expense, Group: "Casa", Bucket: core.Needs},
		{ID: "3", Name: "Stipendio", Kind: core.Income, Group: "Lavoro"},
	}, nil, nil)
	svc := NewPlanService(store)
	ctx := context.Background()

	plan, err := svc.GenerateDefaultPlan(ctx, "mario", "2025-03")
	if err != nil {
		t.Fatalf("GenerateDefaultPlan() error = %v", err)
	}
	if len(plan.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2 (income categories excluded)", len(plan.Groups))
	}

	stored, err := store.GetPlan(ctx, "mario", "2025-03")
	if err != nil || stored == nil {
		t.Fatalf("GetPlan() = %v, %v, want stored plan", stored, err)
	}

	// An existing plan is never regenerated.
	stored.Groups[0].Limit = core.Money{Cents: 12345}
	if err := store.SavePlan(ctx, *stored); err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}
	again, err := svc.GenerateDefaultPlan(ctx, "mario", "2025-03")
	if err != nil {
		t.Fatalf("GenerateDefaultPlan() second error = %v", err)
	}
	if again.Groups[0].Limit.Cents != 12345 {
		t.Errorf("existing plan was overwritten: %+v", again.Groups[0])
	}
}
