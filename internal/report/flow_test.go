package report

import (
	"reflect"
	"testing"

	"bilancio/internal/core"
)

func TestBuildFlowGraph(t *testing.T) {
	scope := testScope(t, "mario", core.Account{ID: "a1", Owner: "mario", Name: "Conto"})
	cats := []core.Category{
		{ID: "c-salary", Name: "Stipendio", Kind: core.Income, Group: "Lavoro"},
		{ID: "c-food", Name: "Spesa", Kind: core.Expense, Group: "Food", Bucket: core.Needs},
	}
	entries := []core.Entry{
		{Kind: core.Income, AccountID: "a1", CategoryID: "c-salary", Amount: cents(200000)},
		{Kind: core.Expense, AccountID: "a1", CategoryID: "c-food", Amount: cents(6000)},
		{Kind: core.Expense, AccountID: "a1", CategoryID: "c-food", Amount: cents(4000)},
		// Foreign account, out of scope.
		{Kind: core.Expense, AccountID: "other", CategoryID: "c-food", Amount: cents(99999)},
	}
	idx := BuildSpendIndex(entries, cats, scope)

	graph := BuildFlowGraph(entries, idx, scope)

	wantLinks := []FlowLink{
		{Source: "Conto", Target: "Spesa", AmountCents: 10000},
		{Source: "Stipendio (In)", Target: "Conto", AmountCents: 200000},
	}
	if !reflect.DeepEqual(graph.Links, wantLinks) {
		t.Errorf("Links = %+v, want %+v", graph.Links, wantLinks)
	}

	wantNodes := []FlowNode{{Name: "Conto"}, {Name: "Spesa"}, {Name: "Stipendio (In)"}}
	if !reflect.DeepEqual(graph.Nodes, wantNodes) {
		t.Errorf("Nodes = %+v, want %+v", graph.Nodes, wantNodes)
	}
}

func TestBuildFlowGraphUncategorized(t *testing.T) {
	scope := testScope(t, "mario", core.Account{ID: "a1", Owner: "mario", Name: "Conto"})
	entries := []core.Entry{
		{Kind: core.Expense, AccountID: "a1", Amount: cents(1500)},
	}
	idx := BuildSpendIndex(entries, nil, scope)

	graph := BuildFlowGraph(entries, idx, scope)
	if len(graph.Links) != 1 {
		t.Fatalf("len(Links) = %d, want 1", len(graph.Links))
	}
	if graph.Links[0].Target != UncategorizedGroup {
		t.Errorf("Target = %q, want %q", graph.Links[0].Target, UncategorizedGroup)
	}
}

func TestBuildFlowGraphEmpty(t *testing.T) {
	scope := testScope(t, "mario", core.Account{ID: "a1", Owner: "mario", Name: "Conto"})
	idx := BuildSpendIndex(nil, nil, scope)
	graph := BuildFlowGraph(nil, idx, scope)
	if graph.Nodes == nil || graph.Links == nil {
		t.Error("empty graph must serialize as [] not null")
	}
	if len(graph.Nodes) != 0 || len(graph.Links) != 0 {
		t.Errorf("graph = %+v, want empty", graph)
	}
}
