package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrWindowOrder        = errors.New("window open time must be before close time")
	ErrWindowMissingScope = errors.New("window must reference a facility")
)

// TimeOfDay is minutes since midnight, [0, 1440].
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(hour*60 + minute), nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time of day on a calendar date in UTC.
func (t TimeOfDay) At(day time.Time) time.Time {
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(t) * time.Minute)
}

// OperatingWindow is a recurring open period for either a single court or
// every court of a facility. A nil Weekday means the window applies every
// day; a nil CourtID means it applies to all courts of the facility.
type OperatingWindow struct {
	ID         uuid.UUID
	FacilityID uuid.UUID
	CourtID    *uuid.UUID
	Weekday    *time.Weekday
	Open       TimeOfDay
	Close      TimeOfDay
	Active     bool
}

func NewOperatingWindow(
	id, facilityID uuid.UUID,
	courtID *uuid.UUID,
	weekday *time.Weekday,
	open, close TimeOfDay,
	active bool,
) (OperatingWindow, error) {
	if facilityID == uuid.Nil {
		return OperatingWindow{}, ErrWindowMissingScope
	}
	if open >= close {
		return OperatingWindow{}, ErrWindowOrder
	}
	return OperatingWindow{
		ID:         id,
		FacilityID: facilityID,
		CourtID:    courtID,
		Weekday:    weekday,
		Open:       open,
		Close:      close,
		Active:     active,
	}, nil
}

// Matches reports whether this window opens the given court on the given
// date. Inactive windows never match.
func (w OperatingWindow) Matches(courtID, facilityID uuid.UUID, day time.Time) bool {
	if !w.Active {
		return false
	}
	if w.FacilityID != facilityID {
		return false
	}
	if w.CourtID != nil && *w.CourtID != courtID {
		return false
	}
	if w.Weekday != nil && *w.Weekday != day.UTC().Weekday() {
		return false
	}
	return true
}

// Interval materializes the open period on a concrete date.
func (w OperatingWindow) Interval(day time.Time) Interval {
	return Interval{Start: w.Open.At(day), End: w.Close.At(day)}
}
