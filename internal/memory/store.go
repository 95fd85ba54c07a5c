// Package memory provides an in-memory data store implementing the report
// provider ports. It backs local development and the engine's tests; the
// production backend is the SQLite store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

type Store struct {
	mu         sync.Mutex
	entries    []core.Entry
	accounts   []core.Account
	categories []core.Category
	plans      map[string]*core.BudgetPlan // owner + "|" + period
}

func New() *Store {
	return &Store{plans: make(map[string]*core.BudgetPlan)}
}

// Seed replaces the store contents wholesale. Test fixtures and dev seeds
// use this instead of issuing one create per record.
func (s *Store) Seed(accounts []core.Account, categories []core.Category, entries []core.Entry, plans []core.BudgetPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append([]core.Account(nil), accounts...)
	s.categories = append([]core.Category(nil), categories...)
	s.entries = append([]core.Entry(nil), entries...)
	s.plans = make(map[string]*core.BudgetPlan, len(plans))
	for i := range plans {
		p := plans[i]
		s.plans[planKey(p.Owner, p.Period)] = &p
	}
}

// QueryEntries implements report.EntryProvider.
func (s *Store) QueryEntries(_ context.Context, f report.EntryFilter) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, e := range s.entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// EarliestEntryDate implements report.EntryProvider.
func (s *Store) EarliestEntryDate(_ context.Context, accountIDs []string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var earliest time.Time
	found := false
	for _, e := range s.entries {
		if e.Deleted {
			continue
		}
		if accountIDs != nil && !containsString(accountIDs, e.AccountID) {
			continue
		}
		if !found || e.Date.Before(earliest) {
			earliest = e.Date
			found = true
		}
	}
	return earliest, found, nil
}

// ListAccounts implements report.AccountProvider.
func (s *Store) ListAccounts(_ context.Context, owner string) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for _, a := range s.accounts {
		if owner == "" || a.Owner == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListCategories implements report.CategoryProvider.
func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

// GetPlan implements report.PlanProvider.
func (s *Store) GetPlan(_ context.Context, owner, period string) (*core.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[planKey(owner, period)]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Groups = append([]core.BudgetGroup(nil), p.Groups...)
	return &cp, nil
}

// PlanOwners returns the distinct owners with at least one stored plan.
func (s *Store) PlanOwners(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.plans {
		if !seen[p.Owner] {
			seen[p.Owner] = true
			out = append(out, p.Owner)
		}
	}
	sort.Strings(out)
	return out, nil
}

// SavePlan stores a plan wholesale, replacing any previous version.
func (s *Store) SavePlan(_ context.Context, plan core.BudgetPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[planKey(plan.Owner, plan.Period)] = &plan
	return nil
}

// CreateEntry validates and stores a new entry, assigning an id when the
// caller did not.
func (s *Store) CreateEntry(_ context.Context, e core.Entry) (core.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return e, nil
}

// SoftDeleteEntry flags an entry as deleted without removing it.
func (s *Store) SoftDeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Deleted = true
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", id)
}

// CompleteEntry transitions a pending entry to completed.
func (s *Store) CompleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Status = core.Completed
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", id)
}

// CreateAccount validates and stores a new account.
func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
	return a, nil
}

// CreateCategory validates and stores a new category.
func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return c, nil
}

func planKey(owner, period string) string {
	return strings.TrimSpace(owner) + "|" + strings.TrimSpace(period)
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
