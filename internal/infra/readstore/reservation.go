package readstore

import (
	"context"
	"time"

	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"
	"courtbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.court_id, c.name, r.facility_id, r.user_id,
			r.starts_at, r.ends_at, r.status, r.price_cents,
			r.payment_method, r.paid, r.note, r.confirmation_code,
			r.cancel_reason, r.created_at, r.updated_at
		FROM reservations r
		JOIN courts c ON c.id = r.court_id
		WHERE r.id = $1`

	var (
		view                        queries.ReservationView
		paymentMethod, note, reason pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.CourtID, &view.CourtName, &view.FacilityID, &view.UserID,
		&view.StartsAt, &view.EndsAt, &view.Status, &view.PriceCents,
		&paymentMethod, &view.Paid, &note, &view.ConfirmationCode,
		&reason, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	view.PaymentMethod = pgconv.StringPtrFromPgtype(paymentMethod)
	view.Note = pgconv.StringPtrFromPgtype(note)
	view.CancelReason = pgconv.StringPtrFromPgtype(reason)
	return &view, nil
}

const reservationListSelect = `
	SELECT r.id, r.court_id, c.name, r.starts_at, r.ends_at,
		r.status, r.price_cents, r.created_at
	FROM reservations r
	JOIN courts c ON c.id = r.court_id`

func (r *ReservationReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	query := reservationListSelect + `
	WHERE r.user_id = $1
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations first page", err)
	}
	defer rows.Close()
	return collectListItems(rows)
}

// FindByUserKeyset continues a listing after the (created_at, id) keyset
// position, so pages stay stable while new reservations arrive.
func (r *ReservationReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	query := reservationListSelect + `
	WHERE r.user_id = $1 AND (r.created_at, r.id) < ($2, $3)
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT $4`

	rows, err := r.db.Query(ctx, query, userID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations keyset", err)
	}
	defer rows.Close()
	return collectListItems(rows)
}

// FindForCourtDay lists the reservations occupying a court within a window,
// for the staff day-sheet view.
func (r *ReservationReadStore) FindForCourtDay(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*queries.ReservationListItem, error) {
	query := reservationListSelect + `
	WHERE r.court_id = $1
	  AND r.status IN ('pending', 'confirmed')
	  AND r.starts_at < $3 AND r.ends_at > $2
	ORDER BY r.starts_at`

	rows, err := r.db.Query(ctx, query, courtID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find court day reservations", err)
	}
	defer rows.Close()
	return collectListItems(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectListItems(rows pgxRows) ([]*queries.ReservationListItem, error) {
	var items []*queries.ReservationListItem
	for rows.Next() {
		var item queries.ReservationListItem
		if err := rows.Scan(
			&item.ID, &item.CourtID, &item.CourtName, &item.StartsAt, &item.EndsAt,
			&item.Status, &item.PriceCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation list", err)
	}
	return items, nil
}
