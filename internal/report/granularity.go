package report

import (
	"fmt"
	"sort"
	"time"
)

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

type (
	// Granularity is the calendar unit used to bucket a trend.
	Granularity string

	// Bucket is one trend interval. Buckets are pre-seeded with zero
	// values before any entry is folded in, so a trend never has gaps for
	// quiet periods.
	Bucket struct {
		Start time.Time
		Label string
	}
)

// SelectGranularity picks the trend unit for a window: day up to a month,
// month up to two years, year beyond.
func SelectGranularity(w Window) Granularity {
	days := w.Days()
	switch {
	case days <= 31:
		return GranularityDay
	case days <= 730:
		return GranularityMonth
	default:
		return GranularityYear
	}
}

// label formats a bucket start for display.
func (g Granularity) label(t time.Time) string {
	switch g {
	case GranularityDay:
		return t.Format("02 Jan")
	case GranularityMonth:
		return t.Format("Jan 2006")
	default:
		return t.Format("2006")
	}
}

// truncate aligns t to the calendar start of its bucket.
func (g Granularity) truncate(t time.Time) time.Time {
	switch g {
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// step advances a bucket start by one calendar unit. Calendar stepping, not
// fixed 24h/30d/365d increments: buckets stay aligned with human reporting
// periods across DST and month-length changes.
func (g Granularity) step(t time.Time) time.Time {
	switch g {
	case GranularityDay:
		return t.AddDate(0, 0, 1)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// MakeBuckets materializes the ordered, gap-free bucket list covering the
// window. maxBuckets guards pathological ranges: on overflow the caller
// omits the trend section only, never the whole report.
func MakeBuckets(w Window, g Granularity, maxBuckets int) ([]Bucket, error) {
	var buckets []Bucket
	for cur := g.truncate(w.Start); !cur.After(w.End); cur = g.step(cur) {
		if maxBuckets > 0 && len(buckets) >= maxBuckets {
			return nil, fmt.Errorf("window %s..%s at %s granularity: %w",
				w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"), g, ErrIntervalTooLarge)
		}
		buckets = append(buckets, Bucket{Start: cur, Label: g.label(cur)})
	}
	return buckets, nil
}

// bucketIndex locates the bucket containing t, or -1 when t is outside the
// covered range.
func bucketIndex(buckets []Bucket, g Granularity, t time.Time) int {
	if len(buckets) == 0 {
		return -1
	}
	aligned := g.truncate(t)
	if aligned.Before(buckets[0].Start) {
		return -1
	}
	i := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].Start.After(aligned)
	})
	return i - 1
}
