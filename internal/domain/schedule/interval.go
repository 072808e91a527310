package schedule

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End). Intervals are plain
// values; all computation in this package treats them as immutable.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// Overlaps uses half-open semantics: [10,11) and [11,12) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !i.Start.After(o.Start) && !i.End.Before(o.End)
}

// Intersect returns the common sub-interval, if any.
func (i Interval) Intersect(o Interval) (Interval, bool) {
	start := i.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := i.End
	if o.End.Before(end) {
		end = o.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Merge unions a set of intervals into an ordered, non-overlapping list.
// Touching intervals ([10,11) and [11,12)) are coalesced.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract removes every interval in sub from base and returns the ordered
// remainder. Both inputs may be unsorted; the result is merged and
// non-overlapping. Runs in O(n log n) on the combined input size.
func Subtract(base, sub []Interval) []Interval {
	open := Merge(base)
	busy := Merge(sub)

	var out []Interval
	bi := 0
	for _, o := range open {
		cursor := o.Start
		for bi < len(busy) && !busy[bi].End.After(cursor) {
			bi++
		}
		for j := bi; j < len(busy) && busy[j].Start.Before(o.End); j++ {
			b := busy[j]
			if b.Start.After(cursor) {
				out = append(out, Interval{Start: cursor, End: b.Start})
			}
			if b.End.After(cursor) {
				cursor = b.End
			}
			if !cursor.Before(o.End) {
				break
			}
		}
		if cursor.Before(o.End) {
			out = append(out, Interval{Start: cursor, End: o.End})
		}
	}
	return out
}

// IntersectAll clips each interval in xs against the open set, returning
// the ordered pieces that fall inside it.
func IntersectAll(open, xs []Interval) []Interval {
	clipped := make([]Interval, 0, len(xs))
	for _, o := range Merge(open) {
		for _, x := range Merge(xs) {
			if iv, ok := o.Intersect(x); ok {
				clipped = append(clipped, iv)
			}
		}
	}
	return Merge(clipped)
}

// ContainedInAny reports whether req fits entirely inside one interval of
// the (merged, ordered) free list.
func ContainedInAny(free []Interval, req Interval) bool {
	for _, f := range free {
		if f.Contains(req) {
			return true
		}
	}
	return false
}
