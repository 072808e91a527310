package schedule

import (
	"time"

	"github.com/google/uuid"
)

// DayBounds returns the UTC [midnight, midnight+24h) interval of a date.
func DayBounds(day time.Time) Interval {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// OpenHours resolves the periods a court is open on a date from its
// operating windows alone (blackouts are subtracted by the caller, which
// also knows about reservations and holds). A court with no matching
// window is closed all day: absence of schedule data must not expose a
// court as bookable.
func OpenHours(day time.Time, courtID, facilityID uuid.UUID, windows []OperatingWindow) []Interval {
	bounds := DayBounds(day)
	var open []Interval
	for _, w := range windows {
		if !w.Matches(courtID, facilityID, bounds.Start) {
			continue
		}
		if iv, ok := bounds.Intersect(w.Interval(bounds.Start)); ok {
			open = append(open, iv)
		}
	}
	return Merge(open)
}

// ResolveDay is the operating calendar: open hours minus blackout
// occurrences for the date, ordered and non-overlapping.
func ResolveDay(day time.Time, courtID, facilityID uuid.UUID, windows []OperatingWindow, blackouts []Blackout) []Interval {
	open := OpenHours(day, courtID, facilityID, windows)
	if len(open) == 0 {
		return nil
	}
	bounds := DayBounds(day)
	var blocked []Interval
	for _, b := range blackouts {
		if b.CourtID != courtID {
			continue
		}
		blocked = append(blocked, b.Occurrences(bounds)...)
	}
	return Subtract(open, blocked)
}
