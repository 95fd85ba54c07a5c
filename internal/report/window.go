package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ModeRange  WindowMode = "range"
	ModePreset WindowMode = "preset"
	ModeMonth  WindowMode = "month"
	ModeWeek   WindowMode = "week"
	ModeYear   WindowMode = "year"
	ModeAll    WindowMode = "all"
)

type (
	WindowMode string

	// Window is a resolved reporting interval, inclusive on both ends.
	// Windows are recomputed per request and never persisted.
	Window struct {
		Start time.Time
		End   time.Time
		Mode  WindowMode
	}

	// WindowRequest carries the raw, mode-specific parameters of a report
	// request before resolution.
	WindowRequest struct {
		Mode  WindowMode
		Start string // range/preset: 2006-01-02
		End   string // range/preset: 2006-01-02
		Month string // month: 2006-01
		Week  string // week: 2006-W02 (ISO, Monday start)
		Year  string // year: 2006
	}
)

// Days returns the window length in whole days, at least 1.
func (w Window) Days() int {
	d := int(w.End.Sub(w.Start).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow turns a requested reporting mode into concrete instants.
// earliest is the date of the oldest entry in scope (zero when none); it
// anchors the all-time mode. A request for the current calendar month is
// truncated at now so that the empty remainder of the month cannot dilute
// partial-month averages.
//
// Unparsable parameters yield ErrInvalidWindow; callers fall back to
// DefaultWindow instead of failing the report.
func ResolveWindow(req WindowRequest, now time.Time, earliest time.Time) (Window, error) {
	switch req.Mode {
	case ModeRange, ModePreset:
		start, err := time.Parse("2006-01-02", req.Start)
		if err != nil {
			return Window{}, fmt.Errorf("parse start %q: %w", req.Start, ErrInvalidWindow)
		}
		end, err := time.Parse("2006-01-02", req.End)
		if err != nil {
			return Window{}, fmt.Errorf("parse end %q: %w", req.End, ErrInvalidWindow)
		}
		end = endOfDay(end)
		if end.Before(start) {
			return Window{}, fmt.Errorf("end %q before start %q: %w", req.End, req.Start, ErrInvalidWindow)
		}
		return Window{Start: start, End: end, Mode: req.Mode}, nil

	case ModeMonth:
		m, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return Window{}, fmt.Errorf("parse month %q: %w", req.Month, ErrInvalidWindow)
		}
		start := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := endOfDay(start.AddDate(0, 1, -1))
		if m.Year() == now.Year() && m.Month() == now.Month() {
			// current month: stop at now, not at month end
			end = now
		}
		return Window{Start: start, End: end, Mode: ModeMonth}, nil

	case ModeWeek:
		start, err := parseISOWeek(req.Week)
		if err != nil {
			return Window{}, err
		}
		end := endOfDay(start.AddDate(0, 0, 6))
		return Window{Start: start, End: end, Mode: ModeWeek}, nil

	case ModeYear:
		y, err := strconv.Atoi(strings.TrimSpace(req.Year))
		if err != nil || y < 1 {
			return Window{}, fmt.Errorf("parse year %q: %w", req.Year, ErrInvalidWindow)
		}
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC))
		return Window{Start: start, End: end, Mode: ModeYear}, nil

	case ModeAll:
		start := earliest
		if start.IsZero() {
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		} else {
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		}
		return Window{Start: start, End: now, Mode: ModeAll}, nil

	default:
		return Window{}, fmt.Errorf("mode %q: %w", req.Mode, ErrInvalidWindow)
	}
}

// DefaultWindow is the safe fallback: the current month truncated at now.
func DefaultWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now, Mode: ModeMonth}
}

// parseISOWeek resolves "2006-W02" to the Monday starting that ISO week.
func parseISOWeek(s string) (time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-W", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("parse week %q: %w", s, ErrInvalidWindow)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week year %q: %w", s, ErrInvalidWindow)
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("parse week number %q: %w", s, ErrInvalidWindow)
	}

	// January 4th is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	monday := week1Monday.AddDate(0, 0, (week-1)*7)

	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("week %q out of range: %w", s, ErrInvalidWindow)
	}
	return monday, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
