package services

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

type (
	// Store is the persistence surface the services need. Both the SQLite
	// repository and the in-memory store satisfy it.
	Store interface {
		CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
		SoftDeleteEntry(ctx context.Context, id string) error
		CompleteEntry(ctx context.Context, id string) error
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error)
		SavePlan(ctx context.Context, plan core.BudgetPlan) error
	}

	// CategoryPublisher emits category.created events.
	CategoryPublisher interface {
		PublishCategoryCreated(ctx context.Context, msg *amqp.CategoryCreatedMessage) error
	}
)

// LedgerService orchestrates ledger writes across storage and AMQP.
type LedgerService struct {
	store     Store
	publisher CategoryPublisher
}

func NewLedgerService(store Store, publisher CategoryPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	created, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return created, nil
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *LedgerService) CompleteEntry(ctx context.Context, id string) error {
	if err := s.store.CompleteEntry(ctx, id); err != nil {
		return fmt.Errorf("complete entry: %w", err)
	}
	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// CreateCategory stores the category and publishes a category.created
// event. The publish is best-effort: the category exists locally either
// way, and the plan sync worker reconciles missed events periodically.
func (s *LedgerService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	if err := s.publishCategoryCreated(ctx, created); err != nil {
		slog.ErrorContext(ctx, "Failed to publish category created message",
			"category_id", created.ID, "error", err)
		// Don't fail the request - category is saved locally
	}
	return created, nil
}

func (s *LedgerService) publishCategoryCreated(ctx context.Context, c core.Category) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping category created message")
		return nil
	}
	msg := amqp.NewCategoryCreatedMessage(c.ID, c.Name, string(c.Kind), c.Group, string(c.Bucket))
	return s.publisher.PublishCategoryCreated(ctx, msg)
}
