package core

import (
	"errors"
	"strings"
)

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

type (
	// Cadence is the tracking rhythm of a budget allocation.
	Cadence string

	// BudgetPlan is one owner's budget configuration for one calendar
	// period ("2006-01"). Plans are saved wholesale: edits replace the
	// full group list.
	BudgetPlan struct {
		Owner  string
		Period string
		Groups []BudgetGroup
	}

	// BudgetGroup is a named allocation within a plan. A group is a leaf
	// when it has no items: then Limit, Cadence and exactly one matcher
	// (TargetGroup or CategoryIDs) are meaningful. A parent group carries
	// only its Items; the leaf-only fields must be zero to avoid stale
	// double counting. Use NewLeafGroup/NewParentGroup to hold that
	// invariant at construction time.
	BudgetGroup struct {
		Name        string
		Limit       Money
		Cadence     Cadence
		TargetGroup string
		CategoryIDs []string
		Items       []BudgetItem
	}

	// BudgetItem is a child allocation inside a parent group, always
	// matched by an explicit category-id list.
	BudgetItem struct {
		Name        string
		Limit       Money
		Cadence     Cadence
		CategoryIDs []string
	}
)

var (
	ErrEmptyPeriod    = errors.New("empty plan period")
	ErrEmptyOwner     = errors.New("empty plan owner")
	ErrInvalidCadence = errors.New("invalid tracking cadence")
)

func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
		return true
	}
	return false
}

// NewLeafGroup builds a leaf allocation. Passing a target group wins over
// category ids; the ids are dropped so the two matchers can never both be
// active on a stored group.
func NewLeafGroup(name string, limit Money, cadence Cadence, targetGroup string, categoryIDs []string) BudgetGroup {
	g := BudgetGroup{
		Name:    name,
		Limit:   limit,
		Cadence: cadence,
	}
	if strings.TrimSpace(targetGroup) != "" {
		g.TargetGroup = targetGroup
	} else {
		g.CategoryIDs = categoryIDs
	}
	return g
}

// NewParentGroup builds a parent allocation holding items. Leaf-only
// fields stay zero.
func NewParentGroup(name string, items []BudgetItem) BudgetGroup {
	return BudgetGroup{Name: name, Items: items}
}

// IsLeaf reports whether the group carries its own limit. Leaf status is
// purely the absence of items.
func (g BudgetGroup) IsLeaf() bool {
	return len(g.Items) == 0
}

func (g BudgetGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.IsLeaf() {
		if g.Limit.Cents < 0 {
			return ErrInvalidAmount
		}
		if g.Cadence != "" && !g.Cadence.Valid() {
			return ErrInvalidCadence
		}
		return nil
	}
	for _, it := range g.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (it BudgetItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if it.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	if it.Cadence != "" && !it.Cadence.Valid() {
		return ErrInvalidCadence
	}
	return nil
}

func (p BudgetPlan) Validate() error {
	if strings.TrimSpace(p.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(p.Period) == "" {
		return ErrEmptyPeriod
	}
	for _, g := range p.Groups {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}
