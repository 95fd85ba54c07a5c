package report

import (
	"testing"
	"time"

	"bilancio/internal/core"
)

func marchWindow() (Window, time.Time) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return Window{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   endOfDay(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)),
		Mode:  ModeMonth,
	}, now
}

func foodIndex(t *testing.T) *SpendIndex {
	t.Helper()
	scope := testScope(t, "mario", core.Account{ID: "a1", Owner: "mario", Name: "Conto"})
	cats := []core.Category{
		{ID: "c-groceries", Name: "Spesa", Kind: core.Expense, Flexibility: core.Variable, Group: "Food", Bucket: core.Needs},
		{ID: "c-restaurants", Name: "Ristoranti", Kind: core.Expense, Flexibility: core.Variable, Group: "Food", Bucket: core.Wants},
		{ID: "c-rent", Name: "Affitto", Kind: core.Expense, Flexibility: core.Fixed, Group: "Casa", Bucket: core.Needs},
	}
	entries := []core.Entry{
		{Kind: core.Expense, AccountID: "a1", CategoryID: "c-groceries", Amount: cents(6000)},
		{Kind: core.Expense, AccountID: "a1", CategoryID: "c-restaurants", Amount: cents(4000)},
		{Kind: core.Expense, AccountID: "a1", CategoryID: "c-rent", Amount: cents(90000)},
		{Kind: core.Income, AccountID: "a1", Amount: cents(250000)},
	}
	return BuildSpendIndex(entries, cats, scope)
}

func TestRollupBudgetGroupLabelIgnoresBucket(t *testing.T) {
	idx := foodIndex(t)
	w, now := marchWindow()

	plan := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
		core.NewLeafGroup("Food", cents(30000), core.CadenceMonthly, "Food", nil),
	}}

	rep := RollupBudget([]core.BudgetPlan{plan}, idx, w, now)
	if len(rep.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(rep.Groups))
	}
	g := rep.Groups[0]
	// Both Food categories match, the wants-tagged one included.
	if g.TotalSpentCents != 10000 {
		t.Errorf("TotalSpentCents = %d, want 10000", g.TotalSpentCents)
	}
	if g.TotalRemainingCents != 20000 {
		t.Errorf("TotalRemainingCents = %d, want 20000", g.TotalRemainingCents)
	}
}

func TestRollupBudgetTargetGroupWins(t *testing.T) {
	idx := foodIndex(t)
	w, now := marchWindow()

	// NewLeafGroup drops explicit ids when a target group is set; build the
	// conflicting variant by hand to exercise the rollup priority directly.
	plan := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{{
		Name:        "Food",
		Limit:       cents(30000),
		Cadence:     core.CadenceMonthly,
		TargetGroup: "Food",
		CategoryIDs: []string{"c-rent"},
	}}}

	rep := RollupBudget([]core.BudgetPlan{plan}, idx, w, now)
	if got := rep.Groups[0].TotalSpentCents; got != 10000 {
		t.Errorf("TotalSpentCents = %d, want 10000 (target group only, rent excluded)", got)
	}
}

func TestRollupBudgetParentGroup(t *testing.T) {
	idx := foodIndex(t)
	w, now := marchWindow()

	plan := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
		core.NewParentGroup("Essenziali", []core.BudgetItem{
			{Name: "Affitto", Limit: cents(90000), Cadence: core.CadenceMonthly, CategoryIDs: []string{"c-rent"}},
			{Name: "Spesa", Limit: cents(10000), Cadence: core.CadenceWeekly, CategoryIDs: []string{"c-groceries"}},
		}),
	}}

	rep := RollupBudget([]core.BudgetPlan{plan}, idx, w, now)
	g := rep.Groups[0]
	if g.IsLeaf {
		t.Error("IsLeaf = true, want false")
	}
	if g.TotalLimitCents != 100000 {
		t.Errorf("TotalLimitCents = %d, want 100000", g.TotalLimitCents)
	}
	if g.TotalSpentCents != 96000 {
		t.Errorf("TotalSpentCents = %d, want 96000", g.TotalSpentCents)
	}
	// Rent is fully spent, groceries have 4000 left.
	if g.TotalRemainingCents != 4000 {
		t.Errorf("TotalRemainingCents = %d, want 4000", g.TotalRemainingCents)
	}
}

func TestRollupBudgetMultiOwnerConcatenates(t *testing.T) {
	idx := foodIndex(t)
	w, now := marchWindow()

	plans := []core.BudgetPlan{
		{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
			core.NewLeafGroup("Food", cents(30000), core.CadenceMonthly, "Food", nil),
		}},
		{Owner: "giulia", Period: "2025-03", Groups: []core.BudgetGroup{
			core.NewLeafGroup("Food", cents(20000), core.CadenceMonthly, "Food", nil),
		}},
	}

	rep := RollupBudget(plans, idx, w, now)
	if len(rep.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2 (same-name groups stay separate)", len(rep.Groups))
	}
	if rep.TotalLimitCents != 50000 {
		t.Errorf("TotalLimitCents = %d, want 50000", rep.TotalLimitCents)
	}
}

func TestRollupBudgetProjectedSavings(t *testing.T) {
	idx := foodIndex(t) // income 250000
	w, now := marchWindow()

	plan := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
		core.NewLeafGroup("Food", cents(30000), core.CadenceMonthly, "Food", nil),
	}}
	rep := RollupBudget([]core.BudgetPlan{plan}, idx, w, now)
	if rep.ProjectedSavingsCents != 220000 {
		t.Errorf("ProjectedSavingsCents = %d, want 220000", rep.ProjectedSavingsCents)
	}

	over := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
		core.NewLeafGroup("Tutto", cents(900000), core.CadenceMonthly, "Food", nil),
	}}
	rep = RollupBudget([]core.BudgetPlan{over}, idx, w, now)
	if rep.ProjectedSavingsCents != 0 {
		t.Errorf("ProjectedSavingsCents = %d, want 0 when limits exceed income", rep.ProjectedSavingsCents)
	}
}

func TestSafeToSpend(t *testing.T) {
	w, now := marchWindow()

	tests := []struct {
		name      string
		remaining int64
		cadence   core.Cadence
		want      int64
	}{
		// 10 Mar noon to 31 Mar end of day: 22 days remain.
		{"daily", 22000, core.CadenceDaily, 1000},
		{"weekly", 12000, core.CadenceWeekly, 3000},
		{"monthly", 5000, core.CadenceMonthly, 5000},
		{"nothing left", 0, core.CadenceDaily, 0},
		{"overspent", -4000, core.CadenceDaily, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeToSpend(tt.remaining, tt.cadence, w, now); got != tt.want {
				t.Errorf("safeToSpend() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerateDefaultGroups(t *testing.T) {
	cats := []core.Category{
		{ID: "1", Name: "Ristoranti", Kind: core.Expense, Group: "Food", Bucket: core.Wants},
		{ID: "2", Name: "Spesa", Kind: core.Expense, Group: "Food", Bucket: core.Needs},
		{ID: "3", Name: "Affitto", Kind: core.Expense, Group: "Casa", Bucket: core.Needs},
		{ID: "4", Name: "Fondo", Kind: core.Expense, Group: "Accumulo", Bucket: core.Savings},
		{ID: "5", Name: "Stipendio", Kind: core.Income, Group: "Lavoro"},
		{ID: "6", Name: "Varie", Kind: core.Expense, Group: ""},
	}

	groups := GenerateDefaultGroups(cats)

	want := []string{"Casa", "Food", "Food", "Accumulo"}
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Name != want[i] {
			t.Errorf("groups[%d].Name = %q, want %q", i, g.Name, want[i])
		}
		if g.TargetGroup != g.Name {
			t.Errorf("groups[%d].TargetGroup = %q, want pre-linked to %q", i, g.TargetGroup, g.Name)
		}
		if g.Limit.Cents != 0 {
			t.Errorf("groups[%d].Limit = %d, want 0", i, g.Limit.Cents)
		}
	}
}

func TestSyncPlanWithCategory(t *testing.T) {
	plan := core.BudgetPlan{Owner: "mario", Period: "2025-03", Groups: []core.BudgetGroup{
		core.NewLeafGroup("Food", cents(30000), core.CadenceMonthly, "Food", nil),
	}}

	added := SyncPlanWithCategory(&plan, core.Category{
		ID: "c-pets", Name: "Veterinario", Kind: core.Expense, Group: "Animali", Bucket: core.Needs,
	})
	if !added || len(plan.Groups) != 2 {
		t.Fatalf("first sync: added=%v groups=%d, want true/2", added, len(plan.Groups))
	}

	// Same group again: nothing to do.
	added = SyncPlanWithCategory(&plan, core.Category{
		ID: "c-toys", Name: "Giochi", Kind: core.Expense, Group: "Animali", Bucket: core.Wants,
	})
	if added || len(plan.Groups) != 2 {
		t.Errorf("repeat sync: added=%v groups=%d, want false/2", added, len(plan.Groups))
	}

	// Income categories never touch the plan.
	added = SyncPlanWithCategory(&plan, core.Category{
		ID: "c-bonus", Name: "Bonus", Kind: core.Income, Group: "Lavoro",
	})
	if added {
		t.Error("income category: added = true, want false")
	}
}
