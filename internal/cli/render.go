package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"bilancio/internal/report"
)

var (
	heading  = color.New(color.FgCyan, color.Bold)
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
	warning  = color.New(color.FgYellow)
	dim      = color.New(color.Faint)
)

func euros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d,%02d", sign, cents/100, cents%100)
}

func signedEuros(cents int64) string {
	if cents < 0 {
		return negative.Sprint(euros(cents))
	}
	return positive.Sprint(euros(cents))
}

func renderSummary(w io.Writer, dash *report.DashboardReport) {
	heading.Fprintf(w, "Summary %s .. %s\n", dash.Window.Start, dash.Window.End)
	fmt.Fprintf(w, "  Income:   %s\n", positive.Sprint(euros(dash.Summary.IncomeCents)))
	fmt.Fprintf(w, "  Expense:  %s\n", negative.Sprint(euros(dash.Summary.ExpenseCents)))
	fmt.Fprintf(w, "  Net:      %s\n", signedEuros(dash.Summary.NetCents))
	if dash.Summary.RealIncomeCents != dash.Summary.IncomeCents ||
		dash.Summary.RealExpenseCents != dash.Summary.ExpenseCents {
		dim.Fprintf(w, "  Excluding transfers: income %s, expense %s\n",
			euros(dash.Summary.RealIncomeCents), euros(dash.Summary.RealExpenseCents))
	}

	if len(dash.Insights) > 0 {
		heading.Fprintln(w, "Insights")
		for _, in := range dash.Insights {
			line := fmt.Sprintf("  %s: %s", in.Title, in.Value)
			switch in.Status {
			case report.StatusWarning:
				warning.Fprintln(w, line)
			case report.StatusPositive:
				positive.Fprintln(w, line)
			default:
				fmt.Fprintln(w, line)
			}
			if in.Message != "" {
				dim.Fprintf(w, "    %s\n", in.Message)
			}
		}
	}
}

func renderBudget(w io.Writer, b report.BudgetReport) {
	if len(b.Groups) == 0 {
		dim.Fprintln(w, "No budget plan for this period")
		return
	}
	heading.Fprintln(w, "Budget")
	for _, g := range b.Groups {
		fmt.Fprintf(w, "  %-20s %s / %s", g.Name, euros(g.TotalSpentCents), euros(g.TotalLimitCents))
		if g.TotalLimitCents > 0 && g.TotalSpentCents > g.TotalLimitCents {
			negative.Fprint(w, "  over")
		}
		fmt.Fprintln(w)
		for _, it := range g.Items {
			dim.Fprintf(w, "    %-18s %s / %s\n", it.Name, euros(it.SpentCents), euros(it.LimitCents))
		}
	}
	fmt.Fprintf(w, "  Total:  %s / %s  remaining %s\n",
		euros(b.TotalSpentCents), euros(b.TotalLimitCents), signedEuros(b.TotalRemainingCents))
	fmt.Fprintf(w, "  Projected savings: %s\n", signedEuros(b.ProjectedSavingsCents))
}

func renderNetWorth(w io.Writer, nw report.NetWorthReport) {
	heading.Fprintln(w, "Net worth")
	fmt.Fprintf(w, "  As of window end: %s\n", signedEuros(nw.AsOfCents))
	fmt.Fprintf(w, "  Current:          %s\n", signedEuros(nw.CurrentCents))
	for _, p := range nw.Series {
		fmt.Fprintf(w, "  %-10s %s\n", p.Label, euros(p.NetWorthCents))
	}
}
