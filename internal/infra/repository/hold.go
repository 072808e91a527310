package repository

import (
	"context"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type HoldRepository struct {
	db db.DBTX
}

func NewHoldRepository(dbtx db.DBTX) *HoldRepository {
	return &HoldRepository{db: dbtx}
}

func (r *HoldRepository) Create(ctx context.Context, hold *booking.Hold) error {
	const query = `
		INSERT INTO holds (id, court_id, user_id, starts_at, ends_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		hold.ID(),
		hold.CourtID(),
		hold.UserID(),
		hold.Slot().Start(),
		hold.Slot().End(),
		hold.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create hold", err)
	}
	return nil
}

func (r *HoldRepository) Get(ctx context.Context, id uuid.UUID) (*booking.Hold, error) {
	const query = `
		SELECT id, court_id, user_id, starts_at, ends_at, expires_at, created_at
		FROM holds
		WHERE id = $1`

	var (
		holdID, courtID, userID uuid.UUID
		startsAt, endsAt        time.Time
		expiresAt, createdAt    time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&holdID, &courtID, &userID, &startsAt, &endsAt, &expiresAt, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hold not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load hold", err)
	}

	slot, err := booking.NewTimeSlot(startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructHold(holdID, courtID, userID, slot, expiresAt, createdAt), nil
}

func (r *HoldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM holds WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete hold", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("hold not found", nil, infra.KindNotFound)
	}
	return nil
}

// PurgeExpired removes dead hold rows. Correctness never depends on it:
// expired holds are already excluded from every availability read.
func (r *HoldRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holds WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge expired holds", err)
	}
	return tag.RowsAffected(), nil
}
