package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/report"
)

type (
	// PlanStore is the persistence surface the worker needs.
	PlanStore interface {
		GetPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error)
		SavePlan(ctx context.Context, plan core.BudgetPlan) error
		PlanOwners(ctx context.Context) ([]string, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
	}
)

// PlanSyncWorker keeps current-period budget plans in step with the
// category taxonomy. It reacts to category.created events and runs a
// periodic reconciliation sweep for events that were missed while the
// broker or the worker was down.
type PlanSyncWorker struct {
	store PlanStore
	// now is overridable for tests; defaults to time.Now.
	now func() time.Time
}

func NewPlanSyncWorker(store PlanStore) *PlanSyncWorker {
	return &PlanSyncWorker{store: store, now: time.Now}
}

// HandleCategoryCreated appends a zero-limit group for the new category to
// every owner's current-period plan that does not cover it yet.
func (w *PlanSyncWorker) HandleCategoryCreated(ctx context.Context, msg *amqp.CategoryCreatedMessage) error {
	cat := core.Category{
		ID:          msg.CategoryID,
		Name:        msg.Name,
		Kind:        core.EntryKind(msg.Kind),
		Group:       msg.Group,
		Bucket:      core.Bucket(msg.Bucket),
		Flexibility: core.Variable,
	}

	slog.InfoContext(ctx, "Processing category created message",
		"category_id", cat.ID, "group", cat.Group)

	return w.syncCategory(ctx, cat)
}

func (w *PlanSyncWorker) syncCategory(ctx context.Context, cat core.Category) error {
	period := w.now().UTC().Format("2006-01")

	owners, err := w.store.PlanOwners(ctx)
	if err != nil {
		return fmt.Errorf("list plan owners: %w", err)
	}

	for _, owner := range owners {
		plan, err := w.store.GetPlan(ctx, owner, period)
		if err != nil {
			return fmt.Errorf("get plan %s/%s: %w", owner, period, err)
		}
		if plan == nil {
			continue
		}

		if !report.SyncPlanWithCategory(plan, cat) {
			continue
		}
		if err := w.store.SavePlan(ctx, *plan); err != nil {
			return fmt.Errorf("save plan %s/%s: %w", owner, period, err)
		}
		slog.InfoContext(ctx, "Plan extended with new category group",
			"owner", owner, "period", period, "group", cat.Group)
	}

	return nil
}

// Reconcile sweeps every category against the current-period plans. It
// backstops lost events: the sweep is idempotent, so running it often is
// harmless.
func (w *PlanSyncWorker) Reconcile(ctx context.Context) error {
	cats, err := w.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	for _, cat := range cats {
		if err := w.syncCategory(ctx, cat); err != nil {
			return fmt.Errorf("reconcile category %s: %w", cat.ID, err)
		}
	}

	slog.InfoContext(ctx, "Plan reconciliation sweep completed", "categories", len(cats))
	return nil
}

// Run performs the periodic reconciliation loop until the context is
// cancelled. Event consumption runs separately via the AMQP consumer.
func (w *PlanSyncWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Plan sync worker started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Plan sync worker stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.Reconcile(ctx); err != nil {
				slog.ErrorContext(ctx, "Plan reconciliation failed", "error", err)
			}
		}
	}
}
