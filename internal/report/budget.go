package report

import (
	"sort"
	"time"

	"bilancio/internal/core"
)

type (
	BudgetItemReport struct {
		Name                  string `json:"name"`
		LimitCents            int64  `json:"limit"`
		SpentCents            int64  `json:"spent"`
		RemainingCents        int64  `json:"remaining"`
		SafeToSpendDailyCents int64  `json:"safeToSpendDaily"`
	}

	BudgetGroupReport struct {
		Name                  string             `json:"name"`
		IsLeaf                bool               `json:"isLeaf"`
		TotalLimitCents       int64              `json:"totalLimit"`
		TotalSpentCents       int64              `json:"totalSpent"`
		TotalRemainingCents   int64              `json:"totalRemaining"`
		SafeToSpendDailyCents int64              `json:"safeToSpendDaily"`
		Items                 []BudgetItemReport `json:"items,omitempty"`
	}

	BudgetReport struct {
		Groups                []BudgetGroupReport `json:"groups"`
		TotalLimitCents       int64               `json:"totalLimit"`
		TotalSpentCents       int64               `json:"totalSpent"`
		TotalRemainingCents   int64               `json:"totalRemaining"`
		ProjectedSavingsCents int64               `json:"projectedSavings"`
	}
)

// RollupBudget normalizes one or more plans against a window's spend
// index. Plans from several owners are concatenated, never merged by name:
// dashboards rely on per-owner groups staying visually distinct.
func RollupBudget(plans []core.BudgetPlan, idx *SpendIndex, w Window, now time.Time) BudgetReport {
	var rep BudgetReport
	for _, plan := range plans {
		for _, g := range plan.Groups {
			gr := rollupGroup(g, idx, w, now)
			rep.Groups = append(rep.Groups, gr)
			rep.TotalLimitCents += gr.TotalLimitCents
			rep.TotalSpentCents += gr.TotalSpentCents
			rep.TotalRemainingCents += gr.TotalRemainingCents
		}
	}
	if rep.Groups == nil {
		rep.Groups = []BudgetGroupReport{}
	}
	rep.ProjectedSavingsCents = maxInt64(0, idx.IncomeCents-rep.TotalLimitCents)
	return rep
}

func rollupGroup(g core.BudgetGroup, idx *SpendIndex, w Window, now time.Time) BudgetGroupReport {
	gr := BudgetGroupReport{Name: g.Name, IsLeaf: g.IsLeaf()}

	if !g.IsLeaf() {
		for _, it := range g.Items {
			ir := rollupItem(it, idx, w, now)
			gr.Items = append(gr.Items, ir)
			gr.TotalLimitCents += ir.LimitCents
			gr.TotalSpentCents += ir.SpentCents
			gr.TotalRemainingCents += ir.RemainingCents
			gr.SafeToSpendDailyCents += ir.SafeToSpendDailyCents
		}
		return gr
	}

	// Leaf matching. A populated target group always wins, even when
	// explicit categories are also set: summing both would double count.
	var spent int64
	if g.TargetGroup != "" {
		spent = spendByGroupLabel(idx, g.TargetGroup)
	} else {
		spent = spendByCategoryIDs(idx, g.CategoryIDs)
	}

	gr.TotalLimitCents = g.Limit.Cents
	gr.TotalSpentCents = spent
	gr.TotalRemainingCents = maxInt64(0, g.Limit.Cents-spent)
	gr.SafeToSpendDailyCents = safeToSpend(gr.TotalRemainingCents, g.Cadence, w, now)
	return gr
}

func rollupItem(it core.BudgetItem, idx *SpendIndex, w Window, now time.Time) BudgetItemReport {
	spent := spendByCategoryIDs(idx, it.CategoryIDs)
	remaining := maxInt64(0, it.Limit.Cents-spent)
	return BudgetItemReport{
		Name:                  it.Name,
		LimitCents:            it.Limit.Cents,
		SpentCents:            spent,
		RemainingCents:        remaining,
		SafeToSpendDailyCents: safeToSpend(remaining, it.Cadence, w, now),
	}
}

// spendByGroupLabel sums spending across every category carrying the group
// label, regardless of each category's bucket. Bucket is advisory metadata
// once a concrete group link exists: a "Food" leaf under needs absorbs
// wants-tagged Food spending too.
func spendByGroupLabel(idx *SpendIndex, group string) int64 {
	var sum int64
	for catID, cents := range idx.SpendByCategory {
		if idx.MetaFor(catID).Group == group {
			sum += cents
		}
	}
	return sum
}

func spendByCategoryIDs(idx *SpendIndex, ids []string) int64 {
	var sum int64
	for _, id := range ids {
		sum += idx.SpendByCategory[id]
	}
	return sum
}

// safeToSpend divides what is left across the tracking periods remaining
// before the reporting window closes. The clock position inside the window
// decides the divisor, clamped to the window bounds.
func safeToSpend(remainingCents int64, cadence core.Cadence, w Window, now time.Time) int64 {
	if remainingCents <= 0 {
		return 0
	}
	from := now
	if from.Before(w.Start) {
		from = w.Start
	}
	if from.After(w.End) {
		from = w.End
	}
	return remainingCents / PeriodsRemaining(cadence, from, w.End)
}

// GenerateDefaultGroups synthesizes one zero-limit leaf group per distinct
// (bucket, group) pair among active expense categories, pre-linked by
// target group so spending matches immediately. Needs sorts before wants
// before savings, then alphabetically; the user fills in limits later.
func GenerateDefaultGroups(cats []core.Category) []core.BudgetGroup {
	type pair struct {
		bucket core.Bucket
		group  string
	}
	seen := make(map[pair]bool)
	var pairs []pair
	for _, c := range cats {
		if c.Kind != core.Expense || c.Group == "" {
			continue
		}
		p := pair{bucket: c.Bucket, group: c.Group}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].bucket != pairs[j].bucket {
			return bucketRank(pairs[i].bucket) < bucketRank(pairs[j].bucket)
		}
		return pairs[i].group < pairs[j].group
	})

	groups := make([]core.BudgetGroup, 0, len(pairs))
	for _, p := range pairs {
		groups = append(groups, core.NewLeafGroup(p.group, core.Money{}, core.CadenceMonthly, p.group, nil))
	}
	return groups
}

// SyncPlanWithCategory appends a zero-limit leaf group for a category
// whose (bucket, group) pair the plan has not seen yet. Idempotent: a
// group already carrying the category's group label — by name or by target
// link — means nothing to do.
func SyncPlanWithCategory(plan *core.BudgetPlan, cat core.Category) bool {
	if cat.Kind != core.Expense || cat.Group == "" {
		return false
	}
	for _, g := range plan.Groups {
		if g.Name == cat.Group || g.TargetGroup == cat.Group {
			return false
		}
	}
	plan.Groups = append(plan.Groups, core.NewLeafGroup(cat.Group, core.Money{}, core.CadenceMonthly, cat.Group, nil))
	return true
}

func bucketRank(b core.Bucket) int {
	switch b {
	case core.Needs:
		return 0
	case core.Wants:
		return 1
	case core.Savings:
		return 2
	default:
		return 3
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
