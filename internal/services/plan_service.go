package services

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

// PlanService manages budget plans. Plans are replaced wholesale per
// (owner, period); there is no partial group update.
type PlanService struct {
	store Store
}

func NewPlanService(store Store) *PlanService {
	return &PlanService{store: store}
}

func (s *PlanService) SavePlan(ctx context.Context, plan core.BudgetPlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("validate plan: %w", err)
	}
	if err := s.store.SavePlan(ctx, plan); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *PlanService) GetPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error) {
	plan, err := s.store.GetPlan(ctx, owner, period)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// GenerateDefaultPlan builds and stores a starter plan for an owner and
// period: one zero-limit group per distinct category group, pre-linked so
// spending matches immediately. An existing plan is returned untouched.
func (s *PlanService) GenerateDefaultPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error) {
	existing, err := s.store.GetPlan(ctx, owner, period)
	if err != nil {
		return nil, fmt.Errorf("check existing plan: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	plan := core.BudgetPlan{
		Owner:  owner,
		Period: period,
		Groups: report.GenerateDefaultGroups(cats),
	}
	if err := s.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save generated plan: %w", err)
	}

	slog.InfoContext(ctx, "Generated default budget plan",
		"owner", owner, "period", period, "groups", len(plan.Groups))
	return &plan, nil
}
