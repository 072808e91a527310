package readstore

import (
	"context"
	"time"

	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Calendar loaders shared by the write-side command reads and the
// availability read store. Both sides must see the same schedule rows;
// only caching policy differs.

func loadOperatingWindows(ctx context.Context, dbtx db.DBTX, facilityID uuid.UUID) ([]schedule.OperatingWindow, error) {
	const query = `
		SELECT id, facility_id, court_id, weekday, open_minutes, close_minutes, active
		FROM operating_windows
		WHERE facility_id = $1 AND active
		ORDER BY open_minutes`

	rows, err := dbtx.Query(ctx, query, facilityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load operating windows", err)
	}
	defer rows.Close()

	var windows []schedule.OperatingWindow
	for rows.Next() {
		var (
			id, facility uuid.UUID
			courtID      pgtype.UUID
			weekday      pgtype.Int4
			open, close  int32
			active       bool
		)
		if err := rows.Scan(&id, &facility, &courtID, &weekday, &open, &close, &active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan operating window", err)
		}
		windows = append(windows, schedule.OperatingWindow{
			ID:         id,
			FacilityID: facility,
			CourtID:    pgconv.UUIDPtrFromPgtype(courtID),
			Weekday:    weekdayPtrFromPgtype(weekday),
			Open:       schedule.TimeOfDay(open),
			Close:      schedule.TimeOfDay(close),
			Active:     active,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read operating windows", err)
	}
	return windows, nil
}

func loadBlackouts(ctx context.Context, dbtx db.DBTX, courtID uuid.UUID) ([]schedule.Blackout, error) {
	const query = `
		SELECT id, court_id, starts_at, ends_at, reason, recurrence, created_by, active
		FROM blackouts
		WHERE court_id = $1 AND active
		ORDER BY starts_at`

	rows, err := dbtx.Query(ctx, query, courtID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load blackouts", err)
	}
	defer rows.Close()

	var blackouts []schedule.Blackout
	for rows.Next() {
		var (
			id, court, createdBy uuid.UUID
			startsAt, endsAt     time.Time
			reason, recurrence   string
			active               bool
		)
		if err := rows.Scan(&id, &court, &startsAt, &endsAt, &reason, &recurrence, &createdBy, &active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blackout", err)
		}
		blackouts = append(blackouts, schedule.Blackout{
			ID:         id,
			CourtID:    court,
			Window:     schedule.Interval{Start: startsAt, End: endsAt},
			Reason:     reason,
			Recurrence: schedule.Recurrence(recurrence),
			CreatedBy:  createdBy,
			Active:     active,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blackouts", err)
	}
	return blackouts, nil
}

// loadBusyIntervals lists the reservations that occupy the calendar and the
// holds that are still live at the cutoff, clipped to the window. Expired
// holds are filtered here rather than waiting for the purge job, so a dead
// hold can never block a booking.
func loadBusyIntervals(
	ctx context.Context,
	dbtx db.DBTX,
	courtID uuid.UUID,
	within schedule.Interval,
	excludeReservationID, excludeHoldID *uuid.UUID,
	now time.Time,
) ([]schedule.Busy, error) {
	const query = `
		SELECT starts_at, ends_at, 'reserved' AS reason
		FROM reservations
		WHERE court_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at < $3 AND ends_at > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		UNION ALL
		SELECT starts_at, ends_at, 'hold' AS reason
		FROM holds
		WHERE court_id = $1
		  AND expires_at > $6
		  AND starts_at < $3 AND ends_at > $2
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY 1`

	rows, err := dbtx.Query(ctx, query,
		courtID,
		within.Start,
		within.End,
		pgconv.UUIDPtrToPgtype(excludeReservationID),
		pgconv.UUIDPtrToPgtype(excludeHoldID),
		now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load busy intervals", err)
	}
	defer rows.Close()

	var busy []schedule.Busy
	for rows.Next() {
		var (
			startsAt, endsAt time.Time
			reason           string
		)
		if err := rows.Scan(&startsAt, &endsAt, &reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan busy interval", err)
		}
		busy = append(busy, schedule.Busy{
			Interval: schedule.Interval{Start: startsAt, End: endsAt},
			Reason:   reason,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read busy intervals", err)
	}
	return busy, nil
}

func weekdayPtrFromPgtype(pi pgtype.Int4) *time.Weekday {
	if !pi.Valid {
		return nil
	}
	wd := time.Weekday(pi.Int32)
	return &wd
}
