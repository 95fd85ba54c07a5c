package report

import (
	"bilancio/internal/core"
)

// UncategorizedGroup is where entries with a missing or orphaned category
// land. They are folded in, never dropped.
const UncategorizedGroup = "Uncategorized"

type (
	// CategoryMeta is the per-category metadata index, built once from the
	// category table and independent of the window.
	CategoryMeta struct {
		Name        string
		Group       string
		Bucket      core.Bucket
		Flexibility core.Flexibility
		Kind        core.EntryKind
	}

	// SpendIndex is the single-pass aggregation of a window's entries for
	// one scope. Every downstream section — budget rollup, insights,
	// summary — reads from here instead of re-aggregating, so trend
	// numbers and narrative numbers cannot drift apart.
	SpendIndex struct {
		// SpendByCategory maps category id to expense cents. The empty
		// id collects uncategorized spending.
		SpendByCategory map[string]int64
		Meta            map[string]CategoryMeta

		// Income/Expense include transfer legs that cross the scope
		// boundary; RealIncome/RealExpense count only true income and
		// expense entries.
		IncomeCents      int64
		ExpenseCents     int64
		RealIncomeCents  int64
		RealExpenseCents int64

		FixedExpenseCents    int64
		VariableExpenseCents int64
	}
)

// NetCents is income minus expense over the indexed window.
func (idx *SpendIndex) NetCents() int64 {
	return idx.IncomeCents - idx.ExpenseCents
}

// MetaFor resolves category metadata, folding orphaned references into the
// uncategorized variable-expense bucket.
func (idx *SpendIndex) MetaFor(categoryID string) CategoryMeta {
	if m, ok := idx.Meta[categoryID]; ok {
		return m
	}
	return CategoryMeta{
		Name:        UncategorizedGroup,
		Group:       UncategorizedGroup,
		Flexibility: core.Variable,
		Kind:        core.Expense,
	}
}

// BuildCategoryMeta indexes the category table by id.
func BuildCategoryMeta(cats []core.Category) map[string]CategoryMeta {
	meta := make(map[string]CategoryMeta, len(cats))
	for _, c := range cats {
		meta[c.ID] = CategoryMeta{
			Name:        c.Name,
			Group:       c.Group,
			Bucket:      c.Bucket,
			Flexibility: c.Flexibility,
			Kind:        c.Kind,
		}
	}
	return meta
}

// foldDelta returns an entry's income and expense contribution to a scope.
// This is the one folding rule shared by the spend indexer, the trend
// builder and the net-worth reconstructor:
//
//	income on an owned source       -> income
//	expense on an owned source      -> expense
//	transfer owned -> not owned     -> expense (money leaving the scope)
//	transfer not owned -> owned     -> income (money entering the scope)
//	transfer fully inside/outside   -> nothing
func foldDelta(e core.Entry, scope *Scope) (incomeCents, expenseCents int64) {
	switch e.Kind {
	case core.Income:
		if scope.Owned(e.AccountID) {
			return e.Amount.Cents, 0
		}
	case core.Expense:
		if scope.Owned(e.AccountID) {
			return 0, e.Amount.Cents
		}
	case core.Transfer:
		srcOwned := scope.Owned(e.AccountID)
		dstOwned := scope.Owned(e.DestinationAccountID)
		switch {
		case srcOwned && !dstOwned:
			return 0, e.Amount.Cents
		case !srcOwned && dstOwned:
			return e.Amount.Cents, 0
		}
	}
	return 0, 0
}

// BuildSpendIndex aggregates the window's entries in a single pass.
// Expense spending is attributed to categories; a transfer leg that moves
// scope-owned money to a non-owned account counts as category spend only
// when the scope is a specific owner rather than the all-accounts union.
func BuildSpendIndex(entries []core.Entry, cats []core.Category, scope *Scope) *SpendIndex {
	idx := &SpendIndex{
		SpendByCategory: make(map[string]int64),
		Meta:            BuildCategoryMeta(cats),
	}

	for _, e := range entries {
		inc, exp := foldDelta(e, scope)
		idx.IncomeCents += inc
		idx.ExpenseCents += exp

		switch e.Kind {
		case core.Income:
			idx.RealIncomeCents += inc
		case core.Expense:
			idx.RealExpenseCents += exp
			if exp > 0 {
				idx.SpendByCategory[e.CategoryID] += exp
				if idx.MetaFor(e.CategoryID).Flexibility == core.Fixed {
					idx.FixedExpenseCents += exp
				} else {
					idx.VariableExpenseCents += exp
				}
			}
		case core.Transfer:
			if exp > 0 && !scope.All() {
				idx.SpendByCategory[e.CategoryID] += exp
			}
		}
	}
	return idx
}
