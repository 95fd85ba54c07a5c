package report

import (
	"sort"

	"bilancio/internal/core"
)

type (
	FlowNode struct {
		Name string `json:"name"`
	}

	FlowLink struct {
		Source      string `json:"source"`
		Target      string `json:"target"`
		AmountCents int64  `json:"amount"`
	}

	// FlowGraph is the node/link structure behind flow visualizations:
	// income categories feed accounts, accounts feed expense categories.
	FlowGraph struct {
		Nodes []FlowNode `json:"nodes"`
		Links []FlowLink `json:"links"`
	}
)

// BuildFlowGraph decomposes the window's entries into source -> target
// value flows. Duplicate pairs aggregate by summation; the node set is the
// union of every source and target seen. Output order is deterministic.
func BuildFlowGraph(entries []core.Entry, idx *SpendIndex, scope *Scope) FlowGraph {
	type pair struct{ source, target string }
	sums := make(map[pair]int64)

	for _, e := range entries {
		switch e.Kind {
		case core.Income:
			if !scope.Owned(e.AccountID) {
				continue
			}
			source := idx.MetaFor(e.CategoryID).Name + " (In)"
			sums[pair{source, scope.AccountName(e.AccountID)}] += e.Amount.Cents
		case core.Expense:
			if !scope.Owned(e.AccountID) {
				continue
			}
			target := idx.MetaFor(e.CategoryID).Name
			sums[pair{scope.AccountName(e.AccountID), target}] += e.Amount.Cents
		}
	}

	graph := FlowGraph{Nodes: []FlowNode{}, Links: []FlowLink{}}
	seen := make(map[string]bool)
	for p, cents := range sums {
		graph.Links = append(graph.Links, FlowLink{Source: p.source, Target: p.target, AmountCents: cents})
		for _, name := range []string{p.source, p.target} {
			if !seen[name] {
				seen[name] = true
				graph.Nodes = append(graph.Nodes, FlowNode{Name: name})
			}
		}
	}

	sort.Slice(graph.Links, func(i, j int) bool {
		if graph.Links[i].Source != graph.Links[j].Source {
			return graph.Links[i].Source < graph.Links[j].Source
		}
		return graph.Links[i].Target < graph.Links[j].Target
	})
	sort.Slice(graph.Nodes, func(i, j int) bool {
		return graph.Nodes[i].Name < graph.Nodes[j].Name
	})
	return graph
}
