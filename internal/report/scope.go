package report

import (
	"context"
	"fmt"
	"sort"

	"bilancio/internal/core"
)

// OwnerAll selects every known account in scope.
const OwnerAll = "all"

// Scope is the resolved account-ownership set for one report request.
// Every component answers "is this account mine" through Scope.Owned —
// dashboard, budget and net-worth totals drift apart the moment that
// predicate is reimplemented inline, so it lives here and nowhere else.
type Scope struct {
	Owner    string
	all      bool
	accounts []core.Account
	owned    map[string]bool
	names    map[string]string
}

// ResolveScope maps a human-facing owner filter to a concrete account set.
// An empty filter falls back to defaultOwner; OwnerAll takes the union of
// all known accounts. A named owner with no accounts yields
// ErrUnresolvedOwner: callers return an empty report section, not a
// user-facing error.
func ResolveScope(ctx context.Context, provider AccountProvider, ownerFilter, defaultOwner string) (*Scope, error) {
	owner := ownerFilter
	if owner == "" {
		owner = defaultOwner
	}

	var (
		accounts []core.Account
		err      error
	)
	all := owner == OwnerAll
	if all {
		accounts, err = provider.ListAccounts(ctx, "")
	} else {
		accounts, err = provider.ListAccounts(ctx, owner)
	}
	if err != nil {
		return nil, fmt.Errorf("list accounts for scope %q: %w", owner, err)
	}
	if !all && len(accounts) == 0 {
		return nil, fmt.Errorf("owner %q: %w", owner, ErrUnresolvedOwner)
	}

	s := &Scope{
		Owner:    owner,
		all:      all,
		accounts: accounts,
		owned:    make(map[string]bool, len(accounts)),
		names:    make(map[string]string, len(accounts)),
	}
	for _, a := range accounts {
		s.owned[a.ID] = true
		s.names[a.ID] = a.Name
	}
	return s, nil
}

// Owned reports whether the account belongs to this scope. Unknown ids —
// deleted or foreign accounts — are simply not owned; reconstruction and
// aggregation stay best-effort instead of failing on one orphaned
// reference.
func (s *Scope) Owned(accountID string) bool {
	return s.owned[accountID]
}

// All reports whether this scope is the union of every known account.
func (s *Scope) All() bool {
	return s.all
}

// Accounts returns the accounts in scope.
func (s *Scope) Accounts() []core.Account {
	return s.accounts
}

// AccountIDs returns the scope's account ids, sorted for stable queries.
func (s *Scope) AccountIDs() []string {
	ids := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return ids
}

// AccountName resolves an account id to its display name, falling back to
// the id itself for orphaned references.
func (s *Scope) AccountName(accountID string) string {
	if name, ok := s.names[accountID]; ok {
		return name
	}
	return accountID
}

// Owners returns the distinct owners present in scope, sorted. Used to
// gather one budget plan per owner when the scope spans several.
func (s *Scope) Owners() []string {
	seen := make(map[string]bool)
	var owners []string
	for _, a := range s.accounts {
		if !seen[a.Owner] {
			seen[a.Owner] = true
			owners = append(owners, a.Owner)
		}
	}
	sort.Strings(owners)
	return owners
}
