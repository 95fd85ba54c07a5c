package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
)

type (
	// Options tunes engine behavior. Zero values fall back to safe
	// defaults in NewEngine.
	Options struct {
		DefaultOwner           string
		LargeDailyExpenseCents int64
		MaxTrendBuckets        int
		// Now is overridable for tests; defaults to time.Now.
		Now func() time.Time
	}

	// Engine computes every report from a per-request snapshot of the
	// excluded collaborators. It holds no mutable state: concurrent
	// report requests share nothing but the providers, which it only
	// reads.
	Engine struct {
		entries    EntryProvider
		accounts   AccountProvider
		categories CategoryProvider
		plans      PlanProvider
		opts       Options
	}

	// Request identifies what to report on: an owner filter plus the raw
	// window parameters.
	Request struct {
		Owner  string
		Window WindowRequest
	}

	Summary struct {
		IncomeCents      int64 `json:"income"`
		ExpenseCents     int64 `json:"expense"`
		NetCents         int64 `json:"net"`
		RealIncomeCents  int64 `json:"realIncome"`
		RealExpenseCents int64 `json:"realExpense"`
	}

	TrendPoint struct {
		Label        string `json:"label"`
		IncomeCents  int64  `json:"income"`
		ExpenseCents int64  `json:"expense"`
	}

	// DashboardReport bundles every section of the combined report. The
	// sections are computed concurrently but the report returns only
	// complete: partial results are never handed to the caller.
	DashboardReport struct {
		Summary  Summary        `json:"summary"`
		Trend    []TrendPoint   `json:"trend"`
		Budget   BudgetReport   `json:"budget"`
		NetWorth NetWorthReport `json:"netWorth"`
		Flows    FlowGraph      `json:"flows"`
		Insights []Insight      `json:"insights"`
		Window   WindowInfo     `json:"window"`
	}

	// WindowInfo echoes the resolved window back to the caller.
	WindowInfo struct {
		Start       string      `json:"start"`
		End         string      `json:"end"`
		Mode        WindowMode  `json:"mode"`
		Granularity Granularity `json:"granularity"`
	}

	// snapshot is the shared per-request loading: scope, window and the
	// single-pass spend index every section reads from.
	snapshot struct {
		scope       *Scope
		window      Window
		granularity Granularity
		entries     []core.Entry
		categories  []core.Category
		index       *SpendIndex
		now         time.Time
	}
)

func NewEngine(entries EntryProvider, accounts AccountProvider, categories CategoryProvider, plans PlanProvider, opts Options) *Engine {
	if opts.DefaultOwner == "" {
		opts.DefaultOwner = "default"
	}
	if opts.MaxTrendBuckets <= 0 {
		opts.MaxTrendBuckets = 1000
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		entries:    entries,
		accounts:   accounts,
		categories: categories,
		plans:      plans,
		opts:       opts,
	}
}

// prepare loads the request's snapshot. An unparsable window degrades to
// the default window rather than failing the report.
func (e *Engine) prepare(ctx context.Context, req Request) (*snapshot, error) {
	now := e.opts.Now().UTC()

	scope, err := ResolveScope(ctx, e.accounts, req.Owner, e.opts.DefaultOwner)
	if err != nil {
		return nil, err
	}

	var earliest time.Time
	if req.Window.Mode == ModeAll {
		t, ok, err := e.entries.EarliestEntryDate(ctx, scope.AccountIDs())
		if err != nil {
			return nil, fmt.Errorf("earliest entry date: %w", err)
		}
		if ok {
			earliest = t
		}
	}

	window, err := ResolveWindow(req.Window, now, earliest)
	if err != nil {
		if !errors.Is(err, ErrInvalidWindow) {
			return nil, err
		}
		slog.WarnContext(ctx, "Invalid window parameters, using default window",
			"error", err, "mode", req.Window.Mode)
		window = DefaultWindow(now)
	}

	entries, err := e.entries.QueryEntries(ctx, EntryFilter{
		Start:      window.Start,
		End:        window.End,
		AccountIDs: scope.AccountIDs(),
	})
	if err != nil {
		return nil, fmt.Errorf("query window entries: %w", err)
	}

	cats, err := e.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &snapshot{
		scope:       scope,
		window:      window,
		granularity: SelectGranularity(window),
		entries:     entries,
		categories:  cats,
		index:       BuildSpendIndex(entries, cats, scope),
		now:         now,
	}, nil
}

// Summary reports the window's totals.
func (e *Engine) Summary(ctx context.Context, req Request) (Summary, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return Summary{}, err
	}
	return summarize(snap.index), nil
}

func summarize(idx *SpendIndex) Summary {
	return Summary{
		IncomeCents:      idx.IncomeCents,
		ExpenseCents:     idx.ExpenseCents,
		NetCents:         idx.NetCents(),
		RealIncomeCents:  idx.RealIncomeCents,
		RealExpenseCents: idx.RealExpenseCents,
	}
}

// Trend buckets the window's income and expense at the window's natural
// granularity. Returns ErrIntervalTooLarge when bucket generation is not
// tractable; the caller omits the trend only.
func (e *Engine) Trend(ctx context.Context, req Request) ([]TrendPoint, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.trend(snap)
}

func (e *Engine) trend(snap *snapshot) ([]TrendPoint, error) {
	buckets, err := MakeBuckets(snap.window, snap.granularity, e.opts.MaxTrendBuckets)
	if err != nil {
		return nil, err
	}
	points := make([]TrendPoint, len(buckets))
	for i, b := range buckets {
		points[i] = TrendPoint{Label: b.Label}
	}
	for _, entry := range snap.entries {
		i := bucketIndex(buckets, snap.granularity, entry.Date)
		if i < 0 {
			continue
		}
		inc, exp := foldDelta(entry, snap.scope)
		points[i].IncomeCents += inc
		points[i].ExpenseCents += exp
	}
	return points, nil
}

// Budget rolls up the scope's plans for the window's calendar period.
// Owners without a plan contribute nothing; a scope with no plans at all
// yields an empty rollup, not an error.
func (e *Engine) Budget(ctx context.Context, req Request) (BudgetReport, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return BudgetReport{}, err
	}
	return e.budget(ctx, snap)
}

func (e *Engine) budget(ctx context.Context, snap *snapshot) (BudgetReport, error) {
	period := snap.window.Start.Format("2006-01")
	var plans []core.BudgetPlan
	for _, owner := range snap.scope.Owners() {
		plan, err := e.plans.GetPlan(ctx, owner, period)
		if err != nil {
			return BudgetReport{}, fmt.Errorf("get plan for %q %s: %w", owner, period, err)
		}
		if plan != nil {
			plans = append(plans, *plan)
		}
	}
	return RollupBudget(plans, snap.index, snap.window, snap.now), nil
}

// NetWorth reconstructs net worth as of the window's end and the bucketed
// series across the window.
func (e *Engine) NetWorth(ctx context.Context, req Request) (NetWorthReport, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return NetWorthReport{}, err
	}
	return e.netWorth(ctx, snap)
}

func (e *Engine) netWorth(ctx context.Context, snap *snapshot) (NetWorthReport, error) {
	// All-time completed entries for the scope: they yield the current
	// balances and, filtered past the window end, the reversal set.
	all, err := e.entries.QueryEntries(ctx, EntryFilter{AccountIDs: snap.scope.AccountIDs()})
	if err != nil {
		return NetWorthReport{}, fmt.Errorf("query entries for net worth: %w", err)
	}

	current := CurrentNetWorth(snap.scope, all)

	var after []core.Entry
	for _, entry := range all {
		if entry.Date.After(snap.window.End) && !entry.Date.After(snap.now) {
			after = append(after, entry)
		}
	}

	buckets, err := MakeBuckets(snap.window, snap.granularity, e.opts.MaxTrendBuckets)
	if err != nil {
		// Net worth as-of is still reportable without the series.
		slog.WarnContext(ctx, "Net worth series omitted", "error", err)
		buckets = nil
	}

	return ReconstructNetWorth(snap.scope, current, after, snap.entries, snap.window, buckets, snap.granularity, snap.now), nil
}

// Flows decomposes the window into source -> destination value flows.
func (e *Engine) Flows(ctx context.Context, req Request) (FlowGraph, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return FlowGraph{}, err
	}
	return BuildFlowGraph(snap.entries, snap.index, snap.scope), nil
}

// Insights runs the granularity-dependent rule set for the window.
func (e *Engine) Insights(ctx context.Context, req Request) ([]Insight, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.insights(ctx, snap)
}

func (e *Engine) insights(ctx context.Context, snap *snapshot) ([]Insight, error) {
	var nw NetWorthReport
	if snap.granularity == GranularityYear {
		var err error
		nw, err = e.netWorth(ctx, snap)
		if err != nil {
			return nil, err
		}
	}
	th := InsightThresholds{LargeDailyExpenseCents: e.opts.LargeDailyExpenseCents}
	return BuildInsights(snap.granularity, snap.index, nw, snap.window, th), nil
}

// Dashboard computes the combined report. The independent sections run
// concurrently — they share only the request snapshot — and all must
// complete before the report is returned. Section-local recoverable
// failures degrade that section to its empty value; provider failures
// fail the whole report.
func (e *Engine) Dashboard(ctx context.Context, req Request) (*DashboardReport, error) {
	snap, err := e.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	rep := &DashboardReport{
		Summary: summarize(snap.index),
		Window: WindowInfo{
			Start:       snap.window.Start.Format("2006-01-02"),
			End:         snap.window.End.Format("2006-01-02"),
			Mode:        snap.window.Mode,
			Granularity: snap.granularity,
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		points, err := e.trend(snap)
		if err != nil {
			if errors.Is(err, ErrIntervalTooLarge) {
				slog.WarnContext(gctx, "Trend section omitted", "error", err)
				rep.Trend = []TrendPoint{}
				return nil
			}
			return err
		}
		rep.Trend = points
		return nil
	})

	g.Go(func() error {
		budget, err := e.budget(gctx, snap)
		if err != nil {
			return err
		}
		rep.Budget = budget
		return nil
	})

	g.Go(func() error {
		nw, err := e.netWorth(gctx, snap)
		if err != nil {
			return err
		}
		rep.NetWorth = nw
		return nil
	})

	g.Go(func() error {
		rep.Flows = BuildFlowGraph(snap.entries, snap.index, snap.scope)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	th := InsightThresholds{LargeDailyExpenseCents: e.opts.LargeDailyExpenseCents}
	rep.Insights = BuildInsights(snap.granularity, snap.index, rep.NetWorth, snap.window, th)
	return rep, nil
}
