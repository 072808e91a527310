package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlackoutInPast = errors.New("blackout cannot start in the past")
	ErrBlackoutOrder  = errors.New("blackout start must be before end")
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// Blackout is an ad-hoc closed period on a single court, optionally
// recurring. Recurrences are expanded on demand, never stored.
type Blackout struct {
	ID         uuid.UUID
	CourtID    uuid.UUID
	Window     Interval
	Reason     string
	Recurrence Recurrence
	CreatedBy  uuid.UUID
	Active     bool
}

func NewBlackout(
	id, courtID uuid.UUID,
	window Interval,
	reason string,
	recurrence Recurrence,
	createdBy uuid.UUID,
	now time.Time,
) (Blackout, error) {
	if !window.Start.Before(window.End) {
		return Blackout{}, ErrBlackoutOrder
	}
	if window.Start.Before(now) {
		return Blackout{}, ErrBlackoutInPast
	}
	if !recurrence.IsValid() {
		recurrence = RecurrenceNone
	}
	return Blackout{
		ID:         id,
		CourtID:    courtID,
		Window:     window,
		Reason:     reason,
		Recurrence: recurrence,
		CreatedBy:  createdBy,
		Active:     true,
	}, nil
}

// Occurrences expands the blackout into the concrete intervals that
// intersect the query range. Pure; the caller owns bounding the range.
// Monthly recurrence pins the day of month and skips months without it
// (a blackout anchored on the 31st never fires in April).
func (b Blackout) Occurrences(within Interval) []Interval {
	if !b.Active {
		return nil
	}

	switch b.Recurrence {
	case RecurrenceNone:
		if b.Window.Overlaps(within) {
			return []Interval{b.Window}
		}
		return nil
	case RecurrenceDaily:
		return b.expand(within, func(k int) Interval {
			return Interval{
				Start: b.Window.Start.AddDate(0, 0, k),
				End:   b.Window.End.AddDate(0, 0, k),
			}
		})
	case RecurrenceWeekly:
		return b.expand(within, func(k int) Interval {
			return Interval{
				Start: b.Window.Start.AddDate(0, 0, 7*k),
				End:   b.Window.End.AddDate(0, 0, 7*k),
			}
		})
	case RecurrenceMonthly:
		var out []Interval
		for k := 0; ; k++ {
			start := b.Window.Start.AddDate(0, k, 0)
			if start.After(within.End) {
				break
			}
			// AddDate normalizes Jan 31 + 1 month to March; skip those.
			if start.Day() != b.Window.Start.Day() {
				continue
			}
			occ := Interval{Start: start, End: start.Add(b.Window.Duration())}
			if occ.Overlaps(within) {
				out = append(out, occ)
			}
		}
		return out
	default:
		return nil
	}
}

func (b Blackout) expand(within Interval, nth func(k int) Interval) []Interval {
	var out []Interval
	for k := 0; ; k++ {
		occ := nth(k)
		if occ.Start.After(within.End) {
			break
		}
		if occ.Overlaps(within) {
			out = append(out, occ)
		}
	}
	return out
}
