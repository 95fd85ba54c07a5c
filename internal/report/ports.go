package report

import (
	"context"
	"strings"
	"time"

	"bilancio/internal/core"
)

// EntryFilter narrows a ledger query. Providers always exclude soft-deleted
// entries; pending entries are excluded unless IncludePending is set, since
// only completed entries affect balances and reports.
type EntryFilter struct {
	Start          time.Time
	End            time.Time
	AccountIDs     []string // nil means no account restriction
	Kinds          []core.EntryKind
	CategoryIDs    []string
	Search         string // free-text match on description
	MinAmountCents int64
	MaxAmountCents int64 // 0 means no upper bound
	IncludePending bool
}

// Matches reports whether an entry passes the filter. Providers backed by a
// database push these predicates into SQL; in-memory providers and tests
// share this single implementation instead of reimplementing it.
func (f EntryFilter) Matches(e core.Entry) bool {
	if e.Deleted {
		return false
	}
	if !f.IncludePending && e.Status != core.Completed {
		return false
	}
	if !f.Start.IsZero() && e.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && e.Date.After(f.End) {
		return false
	}
	if f.AccountIDs != nil && !containsString(f.AccountIDs, e.AccountID) &&
		!(e.Kind == core.Transfer && containsString(f.AccountIDs, e.DestinationAccountID)) {
		return false
	}
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, e.Kind) {
		return false
	}
	if len(f.CategoryIDs) > 0 && !containsString(f.CategoryIDs, e.CategoryID) {
		return false
	}
	if f.Search != "" && !containsFold(e.Description, f.Search) {
		return false
	}
	if f.MinAmountCents > 0 && e.Amount.Cents < f.MinAmountCents {
		return false
	}
	if f.MaxAmountCents > 0 && e.Amount.Cents > f.MaxAmountCents {
		return false
	}
	return true
}

// Ports for the excluded collaborators. The engine never writes through
// these; the CRUD layer owns all mutation.
type (
	EntryProvider interface {
		QueryEntries(ctx context.Context, f EntryFilter) ([]core.Entry, error)
		// EarliestEntryDate returns the date of the oldest non-deleted
		// entry for the given accounts, or ok=false when none exist.
		EarliestEntryDate(ctx context.Context, accountIDs []string) (time.Time, bool, error)
	}

	AccountProvider interface {
		// ListAccounts returns accounts for one owner, or all accounts
		// when owner is empty.
		ListAccounts(ctx context.Context, owner string) ([]core.Account, error)
	}

	CategoryProvider interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	PlanProvider interface {
		// GetPlan returns nil (no error) when the owner has no plan for
		// the period.
		GetPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error)
	}
)

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsKind(ks []core.EntryKind, k core.EntryKind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
