package schedule

import (
	"sort"
	"time"
)

type SlotStatus string

const (
	SlotFree     SlotStatus = "free"
	SlotOccupied SlotStatus = "occupied"
)

// Occupancy reasons, in descending subtraction priority.
const (
	ReasonBlackout = "blackout"
	ReasonReserved = "reserved"
	ReasonHold     = "hold"
)

// Slot is one reported free or occupied sub-interval of a court's day.
type Slot struct {
	Interval Interval
	Status   SlotStatus
	Reason   string
}

// Busy is an occupied interval with its occupancy reason, the input to the
// slot sweep.
type Busy struct {
	Interval Interval
	Reason   string
}

// BuildSlots subtracts busy intervals from the open hours and reports the
// result as an ordered, non-overlapping slot list. Busy groups are applied
// in priority order (blackout, reservation, hold) so a reservation inside a
// blackout window is reported once, as blackout. Sort-based, O(n log n).
func BuildSlots(open []Interval, busy []Busy) []Slot {
	remaining := Merge(open)
	if len(remaining) == 0 {
		return nil
	}

	groups := map[string][]Interval{}
	for _, b := range busy {
		groups[b.Reason] = append(groups[b.Reason], b.Interval)
	}

	var slots []Slot
	for _, reason := range []string{ReasonBlackout, ReasonReserved, ReasonHold} {
		ivs := groups[reason]
		if len(ivs) == 0 {
			continue
		}
		for _, occ := range IntersectAll(remaining, ivs) {
			slots = append(slots, Slot{Interval: occ, Status: SlotOccupied, Reason: reason})
		}
		remaining = Subtract(remaining, ivs)
	}

	for _, free := range remaining {
		slots = append(slots, Slot{Interval: free, Status: SlotFree})
	}

	sort.Slice(slots, func(a, b int) bool {
		return slots[a].Interval.Start.Before(slots[b].Interval.Start)
	})
	return slots
}

// FreeIntervals subtracts every busy interval, regardless of reason, from
// the open hours. This is the write-time availability primitive: it always
// re-derives from the inputs instead of trusting a cached slot list.
func FreeIntervals(open []Interval, busy []Busy) []Interval {
	ivs := make([]Interval, 0, len(busy))
	for _, b := range busy {
		ivs = append(ivs, b.Interval)
	}
	return Subtract(open, ivs)
}

// SplitByGranularity chops free intervals into fixed-size bookable chunks
// anchored at each interval's start. Remainders shorter than the step are
// dropped.
func SplitByGranularity(free []Interval, step time.Duration) []Interval {
	if step <= 0 {
		return free
	}
	var out []Interval
	for _, f := range free {
		for cursor := f.Start; !cursor.Add(step).After(f.End); cursor = cursor.Add(step) {
			out = append(out, Interval{Start: cursor, End: cursor.Add(step)})
		}
	}
	return out
}
