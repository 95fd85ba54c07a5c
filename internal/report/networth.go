package report

import (
	"time"

	"bilancio/internal/core"
)

type (
	NetWorthPoint struct {
		Label         string `json:"label"`
		NetWorthCents int64  `json:"netWorth"`
		IncomeCents   int64  `json:"income"`
		ExpenseCents  int64  `json:"expense"`
	}

	NetWorthReport struct {
		// AsOfCents is net worth at the window's end instant.
		AsOfCents int64 `json:"asOf"`
		// CurrentCents is net worth right now (initial balances plus
		// every completed entry).
		CurrentCents int64           `json:"current"`
		Series       []NetWorthPoint `json:"series"`
	}
)

// CurrentNetWorth sums derived balances over the scope's accounts: initial
// balance plus the signed effect of every completed entry. Transfer legs
// whose destination is owned add back on the receiving side, so a transfer
// fully inside the scope nets to zero.
func CurrentNetWorth(scope *Scope, allEntries []core.Entry) int64 {
	var total int64
	for _, a := range scope.Accounts() {
		total += a.InitialBalance.Cents
	}
	for _, e := range allEntries {
		inc, exp := foldDelta(e, scope)
		total += inc - exp
	}
	return total
}

// ReconstructNetWorth derives net worth as of the window's end by starting
// from the current total and undoing every completed entry dated after the
// window: income is subtracted back out, expenses are added back, and
// boundary-crossing transfers reverse in kind. Entries pointing at unknown
// accounts fold as unowned — reconstruction is best-effort and never
// aborts over an orphaned reference.
//
// The bucketed series walks the window's buckets from last to first: each
// bucket's ending net worth is the next bucket's ending value minus that
// bucket's net flow, then the series is reversed to chronological order.
func ReconstructNetWorth(scope *Scope, currentCents int64, entriesAfter, entriesWithin []core.Entry, w Window, buckets []Bucket, g Granularity, now time.Time) NetWorthReport {
	asOf := currentCents
	if w.End.Before(now) {
		for _, e := range entriesAfter {
			inc, exp := foldDelta(e, scope)
			asOf -= inc - exp
		}
	}

	rep := NetWorthReport{AsOfCents: asOf, CurrentCents: currentCents, Series: []NetWorthPoint{}}
	if len(buckets) == 0 {
		return rep
	}

	income := make([]int64, len(buckets))
	expense := make([]int64, len(buckets))
	for _, e := range entriesWithin {
		i := bucketIndex(buckets, g, e.Date)
		if i < 0 {
			continue
		}
		inc, exp := foldDelta(e, scope)
		income[i] += inc
		expense[i] += exp
	}

	series := make([]NetWorthPoint, len(buckets))
	ending := asOf
	for i := len(buckets) - 1; i >= 0; i-- {
		series[i] = NetWorthPoint{
			Label:         buckets[i].Label,
			NetWorthCents: ending,
			IncomeCents:   income[i],
			ExpenseCents:  expense[i],
		}
		ending -= income[i] - expense[i]
	}
	rep.Series = series
	return rep
}
