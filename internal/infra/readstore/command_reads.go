package readstore

import (
	"context"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/infra/repository"
	"courtbook/internal/pkg/pgconv"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReadStore serves the write side: every availability input is
// re-derived from the store inside the deciding transaction, never from a
// cached slot list.
type CommandReadStore struct {
	db           db.DBTX
	reservations *repository.ReservationRepository
	holds        *repository.HoldRepository
}

func NewCommandReadStore(dbtx db.DBTX) *CommandReadStore {
	return &CommandReadStore{
		db:           dbtx,
		reservations: repository.NewReservationRepository(dbtx),
		holds:        repository.NewHoldRepository(dbtx),
	}
}

func (s *CommandReadStore) CourtByID(ctx context.Context, id uuid.UUID) (*shared.CourtSnapshot, error) {
	const query = `
		SELECT id, facility_id, name, surface, indoor, active
		FROM courts
		WHERE id = $1`

	var snap shared.CourtSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.FacilityID, &snap.Name, &snap.Surface, &snap.Indoor, &snap.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("court not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load court", err)
	}
	return &snap, nil
}

func (s *CommandReadStore) ReservationByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	return s.reservations.Get(ctx, id)
}

func (s *CommandReadStore) HoldByID(ctx context.Context, id uuid.UUID) (*booking.Hold, error) {
	return s.holds.Get(ctx, id)
}

func (s *CommandReadStore) OperatingWindows(ctx context.Context, facilityID uuid.UUID) ([]schedule.OperatingWindow, error) {
	return loadOperatingWindows(ctx, s.db, facilityID)
}

func (s *CommandReadStore) Blackouts(ctx context.Context, courtID uuid.UUID) ([]schedule.Blackout, error) {
	return loadBlackouts(ctx, s.db, courtID)
}

func (s *CommandReadStore) PricingRules(ctx context.Context, courtID uuid.UUID) ([]pricing.Rule, error) {
	return loadPricingRules(ctx, s.db, courtID)
}

func (s *CommandReadStore) Promotions(ctx context.Context, courtID, facilityID uuid.UUID) ([]pricing.Promotion, error) {
	return loadPromotions(ctx, s.db, courtID, facilityID)
}

func (s *CommandReadStore) BusyIntervals(ctx context.Context, courtID uuid.UUID, within schedule.Interval, filter shared.BusyFilter) ([]schedule.Busy, error) {
	return loadBusyIntervals(ctx, s.db, courtID, within, filter.ExcludeReservationID, filter.ExcludeHoldID, filter.Now)
}

func (s *CommandReadStore) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	const query = `
		SELECT key, user_id, status, request_hash, result_reservation_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`

	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := s.db.QueryRow(ctx, query, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Status, &rec.RequestHash, &resultID, &rec.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load idempotency key", err)
	}
	rec.ResultReservationID = pgconv.UUIDPtrFromPgtype(resultID)
	return &rec, nil
}
