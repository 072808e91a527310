package queries

import (
	"context"
	"time"

	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityStore interface {
	CourtByID(ctx context.Context, id uuid.UUID) (*CourtView, error)
	ListCourts(ctx context.Context, facilityID uuid.UUID) ([]*CourtView, error)
	OperatingWindows(ctx context.Context, facilityID uuid.UUID) ([]schedule.OperatingWindow, error)
	Blackouts(ctx context.Context, courtID uuid.UUID) ([]schedule.Blackout, error)
	BusyIntervals(ctx context.Context, courtID uuid.UUID, within schedule.Interval, now time.Time) ([]schedule.Busy, error)
}

// AvailabilityCache trades freshness for read latency. A nil,nil Get is a
// miss; implementations are expected to degrade to misses on failure.
type AvailabilityCache interface {
	Get(ctx context.Context, courtID uuid.UUID, date string, granularity time.Duration) (*AvailabilityDay, error)
	Set(ctx context.Context, courtID uuid.UUID, date string, granularity time.Duration, day *AvailabilityDay)
}

type AvailabilityQueries interface {
	// CourtDay reports the court's free and occupied slots for a calendar
	// date. Zero granularity reports raw merged intervals; a positive one
	// chops the free intervals into bookable chunks of that size.
	CourtDay(ctx context.Context, courtID uuid.UUID, date time.Time, granularity time.Duration) (*AvailabilityDay, error)
	// CourtRange reports one day grid per calendar date between from and
	// to inclusive, capped at maxRangeDays.
	CourtRange(ctx context.Context, courtID uuid.UUID, from, to time.Time, granularity time.Duration) ([]*AvailabilityDay, error)
	ListCourts(ctx context.Context, facilityID uuid.UUID) ([]*CourtView, error)
}

const (
	maxGranularity = 8 * time.Hour
	maxRangeDays   = 31
)

type availabilityQueriesImpl struct {
	store AvailabilityStore
	cache AvailabilityCache
	clock clock.Clock
}

func NewAvailabilityQueries(store AvailabilityStore, cache AvailabilityCache, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store, cache: cache, clock: clk}
}

func (q *availabilityQueriesImpl) CourtDay(ctx context.Context, courtID uuid.UUID, date time.Time, granularity time.Duration) (*AvailabilityDay, error) {
	if granularity < 0 || granularity > maxGranularity || (granularity > 0 && granularity < 15*time.Minute) {
		return nil, errs.ErrValidation
	}

	bounds := schedule.DayBounds(date)
	dateStr := bounds.Start.Format("2006-01-02")

	if q.cache != nil {
		if day, err := q.cache.Get(ctx, courtID, dateStr, granularity); err == nil && day != nil {
			return day, nil
		}
	}

	court, err := q.store.CourtByID(ctx, courtID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCourtNotFound
		}
		return nil, err
	}

	day := &AvailabilityDay{CourtID: courtID, Date: dateStr}
	// Inactive courts read as closed all day, same as a court with no
	// operating window.
	if court.Active {
		slots, err := q.computeSlots(ctx, court, bounds, granularity)
		if err != nil {
			return nil, err
		}
		day.Slots = slots
	}

	if q.cache != nil {
		q.cache.Set(ctx, courtID, dateStr, granularity, day)
	}
	return day, nil
}

func (q *availabilityQueriesImpl) CourtRange(ctx context.Context, courtID uuid.UUID, from, to time.Time, granularity time.Duration) ([]*AvailabilityDay, error) {
	start := schedule.DayBounds(from).Start
	last := schedule.DayBounds(to).Start
	if last.Before(start) {
		return nil, errs.ErrValidation
	}
	span := int(last.Sub(start)/(24*time.Hour)) + 1
	if span > maxRangeDays {
		return nil, errs.ErrValidation
	}

	days := make([]*AvailabilityDay, 0, span)
	for d := start; !d.After(last); d = d.AddDate(0, 0, 1) {
		day, err := q.CourtDay(ctx, courtID, d, granularity)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func (q *availabilityQueriesImpl) computeSlots(ctx context.Context, court *CourtView, bounds schedule.Interval, granularity time.Duration) ([]AvailabilitySlot, error) {
	windows, err := q.store.OperatingWindows(ctx, court.FacilityID)
	if err != nil {
		return nil, err
	}
	open := schedule.OpenHours(bounds.Start, court.ID, court.FacilityID, windows)
	if len(open) == 0 {
		return nil, nil
	}

	blackouts, err := q.store.Blackouts(ctx, court.ID)
	if err != nil {
		return nil, err
	}
	var busy []schedule.Busy
	for _, b := range blackouts {
		for _, occ := range b.Occurrences(bounds) {
			busy = append(busy, schedule.Busy{Interval: occ, Reason: schedule.ReasonBlackout})
		}
	}

	occupied, err := q.store.BusyIntervals(ctx, court.ID, bounds, q.clock.Now())
	if err != nil {
		return nil, err
	}
	busy = append(busy, occupied...)

	slots := schedule.BuildSlots(open, busy)
	return toSlotViews(slots, granularity), nil
}

func toSlotViews(slots []schedule.Slot, granularity time.Duration) []AvailabilitySlot {
	var views []AvailabilitySlot
	for _, s := range slots {
		if s.Status == schedule.SlotFree && granularity > 0 {
			for _, chunk := range schedule.SplitByGranularity([]schedule.Interval{s.Interval}, granularity) {
				views = append(views, AvailabilitySlot{
					StartsAt: chunk.Start,
					EndsAt:   chunk.End,
					Status:   string(schedule.SlotFree),
				})
			}
			continue
		}
		views = append(views, AvailabilitySlot{
			StartsAt: s.Interval.Start,
			EndsAt:   s.Interval.End,
			Status:   string(s.Status),
			Reason:   s.Reason,
		})
	}
	return views
}

func (q *availabilityQueriesImpl) ListCourts(ctx context.Context, facilityID uuid.UUID) ([]*CourtView, error) {
	return q.store.ListCourts(ctx, facilityID)
}
