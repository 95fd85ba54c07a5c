package core

import (
	"errors"
	"testing"
	"time"
)

func validEntry() Entry {
	return Entry{
		ID:          "e1",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      Money{Cents: 1500},
		Kind:        Expense,
		AccountID:   "acc1",
		CategoryID:  "cat1",
		Status:      Completed,
		Description: "groceries",
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr error
	}{
		{"valid expense", func(e *Entry) {}, nil},
		{"zero amount", func(e *Entry) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Entry) { e.Amount = Money{Cents: -10} }, ErrInvalidAmount},
		{"bad kind", func(e *Entry) { e.Kind = "refund" }, ErrInvalidKind},
		{"bad status", func(e *Entry) { e.Status = "archived" }, ErrInvalidStatus},
		{"no account", func(e *Entry) { e.AccountID = " " }, ErrEmptyAccount},
		{"no description", func(e *Entry) { e.Description = "  " }, ErrEmptyDescription},
		{"transfer without destination", func(e *Entry) {
			e.Kind = Transfer
		}, ErrMissingDestination},
		{"transfer to itself", func(e *Entry) {
			e.Kind = Transfer
			e.DestinationAccountID = e.AccountID
		}, ErrSameDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntrySigned(t *testing.T) {
	e := validEntry()
	if got := e.Signed(); got != -1500 {
		t.Errorf("expense Signed() = %d, want -1500", got)
	}
	e.Kind = Income
	if got := e.Signed(); got != 1500 {
		t.Errorf("income Signed() = %d, want 1500", got)
	}
	e.Kind = Transfer
	e.DestinationAccountID = "acc2"
	if got := e.Signed(); got != -1500 {
		t.Errorf("transfer Signed() = %d, want -1500", got)
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{Name: "Groceries", Kind: Expense, Flexibility: Variable, Group: "Food", Bucket: Needs}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	c.Bucket = ""
	if err := c.Validate(); !errors.Is(err, ErrInvalidBucket) {
		t.Errorf("expense without bucket: got %v, want %v", err, ErrInvalidBucket)
	}
	// bucket is only meaningful for expenses
	c.Kind = Income
	if err := c.Validate(); err != nil {
		t.Errorf("income without bucket: got %v, want nil", err)
	}
}

func TestNewLeafGroupMatcherExclusivity(t *testing.T) {
	g := NewLeafGroup("Food", Money{Cents: 50000}, CadenceMonthly, "Food", []string{"cat1", "cat2"})
	if g.TargetGroup != "Food" {
		t.Errorf("TargetGroup = %q, want Food", g.TargetGroup)
	}
	if len(g.CategoryIDs) != 0 {
		t.Errorf("CategoryIDs = %v, want empty when target group is set", g.CategoryIDs)
	}

	g = NewLeafGroup("Picked", Money{Cents: 1000}, CadenceWeekly, "", []string{"cat1"})
	if g.TargetGroup != "" || len(g.CategoryIDs) != 1 {
		t.Errorf("explicit matcher lost: target=%q ids=%v", g.TargetGroup, g.CategoryIDs)
	}
}

func TestNewParentGroupClearsLeafFields(t *testing.T) {
	g := NewParentGroup("Essentials", []BudgetItem{
		{Name: "Rent", Limit: Money{Cents: 90000}, Cadence: CadenceMonthly, CategoryIDs: []string{"rent"}},
	})
	if g.IsLeaf() {
		t.Fatal("group with items reported as leaf")
	}
	if g.Limit.Cents != 0 || g.TargetGroup != "" || g.CategoryIDs != nil {
		t.Errorf("parent group carries leaf fields: %+v", g)
	}
}

func TestBudgetPlanValidate(t *testing.T) {
	p := BudgetPlan{Owner: "anna", Period: "2025-03", Groups: []BudgetGroup{
		NewLeafGroup("Food", Money{Cents: 40000}, CadenceMonthly, "Food", nil),
	}}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	p.Period = ""
	if err := p.Validate(); !errors.Is(err, ErrEmptyPeriod) {
		t.Errorf("got %v, want %v", err, ErrEmptyPeriod)
	}
}
