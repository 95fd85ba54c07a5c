package report

import (
	"time"

	"bilancio/internal/core"
)

// periodCounter computes how many tracking periods of one cadence remain
// between two instants. Each cadence has its own counter, looked up by
// type; the answer is always at least 1 so safe-to-spend never divides by
// zero on a window's last day.
type periodCounter func(from, until time.Time) int64

var periodCounters = map[core.Cadence]periodCounter{
	core.CadenceDaily:   daysRemaining,
	core.CadenceWeekly:  weeksRemaining,
	core.CadenceMonthly: monthsRemaining,
}

// PeriodsRemaining answers "how many cadence periods are left between from
// and until". It is measured against the reporting window's end, not the
// cadence's own calendar: remaining / PeriodsRemaining is how much can
// still be spent per period before the window closes. Unknown cadences
// count as monthly.
func PeriodsRemaining(c core.Cadence, from, until time.Time) int64 {
	counter, ok := periodCounters[c]
	if !ok {
		counter = monthsRemaining
	}
	return counter(from, until)
}

func daysRemaining(from, until time.Time) int64 {
	if !until.After(from) {
		return 1
	}
	days := int64(until.Sub(from).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func weeksRemaining(from, until time.Time) int64 {
	weeks := (daysRemaining(from, until) + 6) / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

func monthsRemaining(from, until time.Time) int64 {
	if !until.After(from) {
		return 1
	}
	months := int64((until.Year()-from.Year())*12 + int(until.Month()) - int(from.Month()) + 1)
	if months < 1 {
		return 1
	}
	return months
}
