package report

import (
	"fmt"
)

const (
	StatusPositive InsightStatus = "positive"
	StatusNeutral  InsightStatus = "neutral"
	StatusWarning  InsightStatus = "warning"
)

type (
	InsightStatus string

	// Insight is a qualitative, presentation-facing summary derived from
	// the aggregates the other sections already computed. Deterministic
	// threshold checks only: no learning, no external calls.
	Insight struct {
		Title   string        `json:"title"`
		Value   string        `json:"value"`
		Message string        `json:"message"`
		Status  InsightStatus `json:"status"`
	}
)

// InsightThresholds carries the configurable cutoffs of the rule set.
type InsightThresholds struct {
	LargeDailyExpenseCents int64
}

// BuildInsights runs the granularity-dependent rule set over the window's
// aggregates. The rules read the same spend index and net-worth series the
// trend and rollup sections use, so the narrative can never disagree with
// the numbers next to it.
func BuildInsights(g Granularity, idx *SpendIndex, nw NetWorthReport, w Window, th InsightThresholds) []Insight {
	switch g {
	case GranularityDay:
		return dailyInsights(idx, w, th)
	case GranularityMonth:
		return monthlyInsights(idx)
	default:
		return yearlyInsights(idx, nw)
	}
}

func dailyInsights(idx *SpendIndex, w Window, th InsightThresholds) []Insight {
	days := int64(w.Days())
	avgDaily := idx.ExpenseCents / days

	avg := Insight{
		Title:  "Average daily expense",
		Value:  formatEuroCents(avgDaily),
		Status: StatusNeutral,
	}
	if th.LargeDailyExpenseCents > 0 && avgDaily > th.LargeDailyExpenseCents {
		avg.Status = StatusWarning
		avg.Message = fmt.Sprintf("Daily spending exceeds %s", formatEuroCents(th.LargeDailyExpenseCents))
	} else {
		avg.Message = fmt.Sprintf("Spread over %d days", days)
	}

	surplus := idx.NetCents()
	balance := Insight{
		Title: "Short-term balance",
		Value: formatEuroCents(surplus),
	}
	if surplus >= 0 {
		balance.Status = StatusPositive
		balance.Message = "Income covered spending in this window"
	} else {
		balance.Status = StatusWarning
		balance.Message = "Spending exceeded income in this window"
	}

	return []Insight{avg, balance}
}

func monthlyInsights(idx *SpendIndex) []Insight {
	var savingsRate float64
	if idx.IncomeCents > 0 {
		savingsRate = float64(idx.NetCents()) / float64(idx.IncomeCents)
	}
	rate := Insight{
		Title: "Savings rate",
		Value: formatPercent(savingsRate),
	}
	switch {
	case savingsRate > 0.20:
		rate.Status = StatusPositive
		rate.Message = "More than a fifth of income is being saved"
	case savingsRate >= 0:
		rate.Status = StatusNeutral
		rate.Message = "Income and spending are close to even"
	default:
		rate.Status = StatusWarning
		rate.Message = "Spending exceeds income"
	}

	totalExpense := idx.FixedExpenseCents + idx.VariableExpenseCents
	var fixedRatio float64
	if totalExpense > 0 {
		fixedRatio = float64(idx.FixedExpenseCents) / float64(totalExpense)
	}
	fixed := Insight{
		Title: "Fixed expense ratio",
		Value: formatPercent(fixedRatio),
	}
	if fixedRatio > 0.60 {
		fixed.Status = StatusWarning
		fixed.Message = "Fixed commitments dominate spending"
	} else {
		fixed.Status = StatusNeutral
		fixed.Message = "Spending remains mostly flexible"
	}

	// Conservative borrowing capacity: 35% of income minus what fixed
	// commitments already consume, surfaced as a safe monthly installment.
	capacity := idx.IncomeCents*35/100 - idx.FixedExpenseCents
	borrow := Insight{
		Title: "Safe monthly installment",
		Value: formatEuroCents(capacity),
	}
	if capacity <= 0 {
		borrow.Status = StatusWarning
		borrow.Message = "Borrowing capacity is maxed out"
	} else {
		borrow.Status = StatusPositive
		borrow.Message = "Room for an installment within 35% of income"
	}

	return []Insight{rate, fixed, borrow}
}

func yearlyInsights(idx *SpendIndex, nw NetWorthReport) []Insight {
	var growth float64
	if len(nw.Series) > 0 {
		first := nw.Series[0].NetWorthCents
		last := nw.Series[len(nw.Series)-1].NetWorthCents
		if first != 0 {
			growth = float64(last-first) / float64(abs64(first))
		}
	}
	growthInsight := Insight{
		Title: "Net worth growth",
		Value: formatPercent(growth),
	}
	if growth >= 0 {
		growthInsight.Status = StatusPositive
		growthInsight.Message = "Net worth grew over the window"
	} else {
		growthInsight.Status = StatusWarning
		growthInsight.Message = "Net worth declined over the window"
	}

	cash := idx.NetCents()
	cashInsight := Insight{
		Title: "Cash accumulated",
		Value: formatEuroCents(cash),
	}
	if cash >= 0 {
		cashInsight.Status = StatusPositive
		cashInsight.Message = "Income outpaced spending this year"
	} else {
		cashInsight.Status = StatusWarning
		cashInsight.Message = "Spending outpaced income this year"
	}

	return []Insight{growthInsight, cashInsight}
}

func formatEuroCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("€%d,%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
