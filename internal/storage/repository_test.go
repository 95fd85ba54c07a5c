package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestEntryRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.Entry{
		Date:        time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
		Amount:      core.Money{Cents: 4250},
		Kind:        core.Expense,
		AccountID:   "a1",
		CategoryID:  "c1",
		Status:      core.Completed,
		Description: "Spesa settimanale",
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateEntry() assigned no id")
	}

	got, err := repo.QueryEntries(ctx, report.EntryFilter{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("QueryEntries() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	e := got[0]
	if e.ID != created.ID || e.Amount.Cents != 4250 || e.Kind != core.Expense {
		t.Errorf("round trip mismatch: %+v", e)
	}
	if !e.Date.Equal(created.Date) {
		t.Errorf("Date = %v, want %v", e.Date, created.Date)
	}
}

func TestQueryEntriesFilters(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	seed := []core.Entry{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Amount: core.Money{Cents: 100}, Kind: core.Income, AccountID: "a1", Status: core.Completed, Description: "Stipendio"},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Amount: core.Money{Cents: 200}, Kind: core.Expense, AccountID: "a2", Status: core.Completed, Description: "Spesa"},
		{Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Amount: core.Money{Cents: 300}, Kind: core.Expense, AccountID: "a1", Status: core.Pending, Description: "In arrivo"},
	}
	for _, e := range seed {
		if _, err := repo.CreateEntry(ctx, e); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	t.Run("date range", func(t *testing.T) {
		got, err := repo.QueryEntries(ctx, report.EntryFilter{
			Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("QueryEntries() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("account filter", func(t *testing.T) {
		got, err := repo.QueryEntries(ctx, report.EntryFilter{AccountIDs: []string{"a2"}})
		if err != nil {
			t.Fatalf("QueryEntries() error = %v", err)
		}
		if len(got) != 1 || got[0].Description != "Spesa" {
			t.Errorf("got %+v, want only account a2", got)
		}
	})

	t.Run("pending excluded by default", func(t *testing.T) {
		got, err := repo.QueryEntries(ctx, report.EntryFilter{})
		if err != nil {
			t.Fatalf("QueryEntries() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 without pending", len(got))
		}
		got, err = repo.QueryEntries(ctx, report.EntryFilter{IncludePending: true})
		if err != nil {
			t.Fatalf("QueryEntries() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len = %d, want 3 with pending", len(got))
		}
	})
}

func TestSoftDeleteEntry(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	e, err := repo.CreateEntry(ctx, core.Entry{
		Date: time.Now().UTC(), Amount: core.Money{Cents: 100}, Kind: core.Expense,
		AccountID: "a1", Status: core.Completed, Description: "Da cancellare",
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := repo.SoftDeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("SoftDeleteEntry() error = %v", err)
	}

	got, err := repo.QueryEntries(ctx, report.EntryFilter{})
	if err != nil {
		t.Fatalf("QueryEntries() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 after soft delete", len(got))
	}

	if err := repo.SoftDeleteEntry(ctx, "missing"); err == nil {
		t.Error("SoftDeleteEntry(missing) = nil, want error")
	}
}

func TestCompleteEntry(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	e, err := repo.CreateEntry(ctx, core.Entry{
		Date: time.Now().UTC(), Amount: core.Money{Cents: 100}, Kind: core.Expense,
		AccountID: "a1", Status: core.Pending, Description: "In arrivo",
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := repo.CompleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("CompleteEntry() error = %v", err)
	}

	got, err := repo.QueryEntries(ctx, report.EntryFilter{})
	if err != nil {
		t.Fatalf("QueryEntries() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != core.Completed {
		t.Errorf("got %+v, want one completed entry", got)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	plan := core.BudgetPlan{
		Owner:  "mario",
		Period: "2025-03",
		Groups: []core.BudgetGroup{
			core.NewLeafGroup("Food", core.Money{Cents: 30000}, core.CadenceMonthly, "Food", nil),
		},
	}
	if err := repo.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}

	got, err := repo.GetPlan(ctx, "mario", "2025-03")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetPlan() = nil, want plan")
	}
	if len(got.Groups) != 1 || got.Groups[0].Name != "Food" || got.Groups[0].Limit.Cents != 30000 {
		t.Errorf("plan = %+v", got)
	}

	// Save again replaces wholesale.
	plan.Groups = append(plan.Groups, core.NewLeafGroup("Casa", core.Money{Cents: 90000}, core.CadenceMonthly, "Casa", nil))
	if err := repo.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan() second error = %v", err)
	}
	got, err = repo.GetPlan(ctx, "mario", "2025-03")
	if err != nil {
		t.Fatalf("GetPlan() second error = %v", err)
	}
	if len(got.Groups) != 2 {
		t.Errorf("len(Groups) = %d, want 2", len(got.Groups))
	}

	// Unknown plan is nil, nil.
	got, err = repo.GetPlan(ctx, "giulia", "2025-03")
	if err != nil || got != nil {
		t.Errorf("GetPlan(missing) = %v, %v, want nil, nil", got, err)
	}
}

func TestAccountsAndCategories(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateAccount(ctx, core.Account{Owner: "mario", Name: "Conto", InitialBalance: core.Money{Cents: 100000}}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if _, err := repo.CreateAccount(ctx, core.Account{Owner: "giulia", Name: "Conto Giulia"}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	mario, err := repo.ListAccounts(ctx, "mario")
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(mario) != 1 || mario[0].InitialBalance.Cents != 100000 {
		t.Errorf("mario accounts = %+v", mario)
	}
	all, err := repo.ListAccounts(ctx, "")
	if err != nil {
		t.Fatalf("ListAccounts(all) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	if _, err := repo.CreateCategory(ctx, core.Category{
		Name: "Spesa", Kind: core.Expense, Flexibility: core.Variable, Group: "Food", Bucket: core.Needs,
	}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(cats) != 1 || cats[0].Group != "Food" || cats[0].Bucket != core.Needs {
		t.Errorf("categories = %+v", cats)
	}
}

func TestEarliestEntryDate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	_, found, err := repo.EarliestEntryDate(ctx, nil)
	if err != nil {
		t.Fatalf("EarliestEntryDate() error = %v", err)
	}
	if found {
		t.Error("found = true on empty table")
	}

	dates := []time.Time{
		time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := repo.CreateEntry(ctx, core.Entry{
			Date: d, Amount: core.Money{Cents: 100}, Kind: core.Expense,
			AccountID: "a1", Status: core.Completed, Description: "x",
		}); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	got, found, err := repo.EarliestEntryDate(ctx, []string{"a1"})
	if err != nil {
		t.Fatalf("EarliestEntryDate() error = %v", err)
	}
	if !found || !got.Equal(dates[1]) {
		t.Errorf("earliest = %v found=%v, want %v", got, found, dates[1])
	}
}
