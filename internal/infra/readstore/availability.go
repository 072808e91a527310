package readstore

import (
	"context"
	"time"

	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"
	"courtbook/internal/usecase/queries"

	"github.com/google/uuid"
)

// AvailabilityReadStore feeds the public availability query. It shares the
// calendar loaders with the command side so both compute from identical
// inputs.
type AvailabilityReadStore struct {
	db db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{db: dbtx}
}

func (s *AvailabilityReadStore) CourtByID(ctx context.Context, id uuid.UUID) (*queries.CourtView, error) {
	const query = `
		SELECT id, facility_id, name, surface, indoor, active
		FROM courts
		WHERE id = $1`

	var view queries.CourtView
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.FacilityID, &view.Name, &view.Surface, &view.Indoor, &view.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("court not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load court", err)
	}
	return &view, nil
}

func (s *AvailabilityReadStore) ListCourts(ctx context.Context, facilityID uuid.UUID) ([]*queries.CourtView, error) {
	const query = `
		SELECT id, facility_id, name, surface, indoor, active
		FROM courts
		WHERE facility_id = $1 AND active
		ORDER BY name`

	rows, err := s.db.Query(ctx, query, facilityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list courts", err)
	}
	defer rows.Close()

	var courts []*queries.CourtView
	for rows.Next() {
		var view queries.CourtView
		if err := rows.Scan(&view.ID, &view.FacilityID, &view.Name, &view.Surface, &view.Indoor, &view.Active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan court", err)
		}
		courts = append(courts, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read courts", err)
	}
	return courts, nil
}

func (s *AvailabilityReadStore) OperatingWindows(ctx context.Context, facilityID uuid.UUID) ([]schedule.OperatingWindow, error) {
	return loadOperatingWindows(ctx, s.db, facilityID)
}

func (s *AvailabilityReadStore) Blackouts(ctx context.Context, courtID uuid.UUID) ([]schedule.Blackout, error) {
	return loadBlackouts(ctx, s.db, courtID)
}

func (s *AvailabilityReadStore) BusyIntervals(ctx context.Context, courtID uuid.UUID, within schedule.Interval, now time.Time) ([]schedule.Busy, error) {
	return loadBusyIntervals(ctx, s.db, courtID, within, nil, nil, now)
}
