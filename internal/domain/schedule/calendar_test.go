//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"courtbook/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTimeOfDay(t *testing.T, hour, minute int) schedule.TimeOfDay {
	t.Helper()
	tod, err := schedule.NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return tod
}

func window(t *testing.T, facilityID uuid.UUID, courtID *uuid.UUID, weekday *time.Weekday, openH, closeH int) schedule.OperatingWindow {
	t.Helper()
	w, err := schedule.NewOperatingWindow(
		uuid.New(), facilityID, courtID, weekday,
		mustTimeOfDay(t, openH, 0), mustTimeOfDay(t, closeH, 0), true,
	)
	require.NoError(t, err)
	return w
}

func TestTimeOfDay(t *testing.T) {
	_, err := schedule.NewTimeOfDay(25, 0)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	_, err = schedule.NewTimeOfDay(24, 30)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	_, err = schedule.NewTimeOfDay(10, 60)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)

	endOfDay, err := schedule.NewTimeOfDay(24, 0)
	require.NoError(t, err)
	assert.Equal(t, schedule.EndOfDay, endOfDay)

	parsed, err := schedule.ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", parsed.String())
}

func TestOpenHours(t *testing.T) {
	facilityID := uuid.New()
	courtID := uuid.New()
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) // a Monday
	mondayWD := time.Monday
	tuesdayWD := time.Tuesday

	t.Run("no matching window means closed", func(t *testing.T) {
		open := schedule.OpenHours(monday, courtID, facilityID, nil)
		assert.Empty(t, open)
	})

	t.Run("facility-wide window applies to every court", func(t *testing.T) {
		windows := []schedule.OperatingWindow{window(t, facilityID, nil, nil, 9, 17)}
		open := schedule.OpenHours(monday, courtID, facilityID, windows)
		require.Len(t, open, 1)
		assert.Equal(t, monday.Add(9*time.Hour), open[0].Start)
		assert.Equal(t, monday.Add(17*time.Hour), open[0].End)
	})

	t.Run("weekday-scoped window only fires on its day", func(t *testing.T) {
		windows := []schedule.OperatingWindow{
			window(t, facilityID, nil, &mondayWD, 9, 12),
			window(t, facilityID, nil, &tuesdayWD, 14, 18),
		}
		open := schedule.OpenHours(monday, courtID, facilityID, windows)
		require.Len(t, open, 1)
		assert.Equal(t, monday.Add(9*time.Hour), open[0].Start)
		assert.Equal(t, monday.Add(12*time.Hour), open[0].End)
	})

	t.Run("court-scoped window excludes other courts", func(t *testing.T) {
		otherCourt := uuid.New()
		windows := []schedule.OperatingWindow{window(t, facilityID, &otherCourt, nil, 9, 17)}
		assert.Empty(t, schedule.OpenHours(monday, courtID, facilityID, windows))
	})

	t.Run("overlapping windows merge", func(t *testing.T) {
		windows := []schedule.OperatingWindow{
			window(t, facilityID, nil, nil, 9, 13),
			window(t, facilityID, &courtID, nil, 12, 17),
		}
		open := schedule.OpenHours(monday, courtID, facilityID, windows)
		require.Len(t, open, 1)
		assert.Equal(t, monday.Add(9*time.Hour), open[0].Start)
		assert.Equal(t, monday.Add(17*time.Hour), open[0].End)
	})

	t.Run("inactive window never matches", func(t *testing.T) {
		w := window(t, facilityID, nil, nil, 9, 17)
		w.Active = false
		assert.Empty(t, schedule.OpenHours(monday, courtID, facilityID, []schedule.OperatingWindow{w}))
	})
}

func TestResolveDay(t *testing.T) {
	facilityID := uuid.New()
	courtID := uuid.New()
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	windows := []schedule.OperatingWindow{window(t, facilityID, nil, nil, 9, 17)}

	t.Run("blackout carves a hole", func(t *testing.T) {
		blackouts := []schedule.Blackout{{
			ID:      uuid.New(),
			CourtID: courtID,
			Window: schedule.Interval{
				Start: monday.Add(12 * time.Hour),
				End:   monday.Add(13 * time.Hour),
			},
			Recurrence: schedule.RecurrenceNone,
			Active:     true,
		}}

		open := schedule.ResolveDay(monday, courtID, facilityID, windows, blackouts)
		require.Len(t, open, 2)
		assert.Equal(t, monday.Add(9*time.Hour), open[0].Start)
		assert.Equal(t, monday.Add(12*time.Hour), open[0].End)
		assert.Equal(t, monday.Add(13*time.Hour), open[1].Start)
	})

	t.Run("other court's blackout ignored", func(t *testing.T) {
		blackouts := []schedule.Blackout{{
			ID:      uuid.New(),
			CourtID: uuid.New(),
			Window: schedule.Interval{
				Start: monday.Add(12 * time.Hour),
				End:   monday.Add(13 * time.Hour),
			},
			Recurrence: schedule.RecurrenceNone,
			Active:     true,
		}}

		open := schedule.ResolveDay(monday, courtID, facilityID, windows, blackouts)
		require.Len(t, open, 1)
	})

	t.Run("closed day stays closed", func(t *testing.T) {
		assert.Nil(t, schedule.ResolveDay(monday, courtID, facilityID, nil, nil))
	})
}

func TestBlackoutOccurrences(t *testing.T) {
	base := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	mk := func(recurrence schedule.Recurrence) schedule.Blackout {
		return schedule.Blackout{
			ID:      uuid.New(),
			CourtID: uuid.New(),
			Window: schedule.Interval{
				Start: base,
				End:   base.Add(2 * time.Hour),
			},
			Recurrence: recurrence,
			Active:     true,
		}
	}

	t.Run("inactive yields nothing", func(t *testing.T) {
		b := mk(schedule.RecurrenceNone)
		b.Active = false
		within := schedule.Interval{Start: base, End: base.AddDate(0, 0, 1)}
		assert.Empty(t, b.Occurrences(within))
	})

	t.Run("one-shot only within range", func(t *testing.T) {
		b := mk(schedule.RecurrenceNone)
		hit := schedule.Interval{Start: base.Add(-time.Hour), End: base.Add(time.Hour)}
		miss := schedule.Interval{Start: base.AddDate(0, 0, 1), End: base.AddDate(0, 0, 2)}

		assert.Len(t, b.Occurrences(hit), 1)
		assert.Empty(t, b.Occurrences(miss))
	})

	t.Run("daily expansion", func(t *testing.T) {
		b := mk(schedule.RecurrenceDaily)
		within := schedule.Interval{Start: base.AddDate(0, 0, 2), End: base.AddDate(0, 0, 5)}

		occ := b.Occurrences(within)
		require.NotEmpty(t, occ)
		for _, o := range occ {
			assert.Equal(t, 10, o.Start.Hour())
			assert.Equal(t, 2*time.Hour, o.Duration())
		}
	})

	t.Run("weekly lands on the same weekday", func(t *testing.T) {
		b := mk(schedule.RecurrenceWeekly)
		within := schedule.Interval{Start: base.AddDate(0, 0, 6), End: base.AddDate(0, 0, 15)}

		occ := b.Occurrences(within)
		require.Len(t, occ, 2)
		assert.Equal(t, base.Weekday(), occ[0].Start.Weekday())
		assert.Equal(t, base.AddDate(0, 0, 7), occ[0].Start)
		assert.Equal(t, base.AddDate(0, 0, 14), occ[1].Start)
	})

	t.Run("monthly anchored on the 31st skips short months", func(t *testing.T) {
		b := mk(schedule.RecurrenceMonthly)
		// Jan 31 through end of May: Feb and Apr have no 31st
		within := schedule.Interval{
			Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		}

		occ := b.Occurrences(within)
		require.Len(t, occ, 3)
		assert.Equal(t, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), occ[0].Start)
		assert.Equal(t, time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC), occ[1].Start)
		assert.Equal(t, time.Date(2026, 5, 31, 10, 0, 0, 0, time.UTC), occ[2].Start)
	})
}

func TestNewBlackout(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	windowIv := schedule.Interval{Start: now.Add(24 * time.Hour), End: now.Add(26 * time.Hour)}

	t.Run("valid", func(t *testing.T) {
		b, err := schedule.NewBlackout(uuid.New(), uuid.New(), windowIv, "maintenance", schedule.RecurrenceWeekly, uuid.New(), now)
		require.NoError(t, err)
		assert.True(t, b.Active)
		assert.Equal(t, schedule.RecurrenceWeekly, b.Recurrence)
	})

	t.Run("past start rejected", func(t *testing.T) {
		past := schedule.Interval{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
		_, err := schedule.NewBlackout(uuid.New(), uuid.New(), past, "", schedule.RecurrenceNone, uuid.New(), now)
		assert.ErrorIs(t, err, schedule.ErrBlackoutInPast)
	})

	t.Run("unknown recurrence falls back to none", func(t *testing.T) {
		b, err := schedule.NewBlackout(uuid.New(), uuid.New(), windowIv, "", schedule.Recurrence("yearly"), uuid.New(), now)
		require.NoError(t, err)
		assert.Equal(t, schedule.RecurrenceNone, b.Recurrence)
	})
}
