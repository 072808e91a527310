package repository

import (
	"context"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `
	id, user_id, court_id, facility_id, starts_at, ends_at, status,
	price_cents, price_rule_id, promotion_id, payment_method, paid,
	note, confirmation_code, cancel_reason, created_at, updated_at`

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

// Create inserts a reservation. The exclusion constraint on
// (court_id, slot) is the last line of defense against double booking;
// a violation surfaces as KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *booking.Reservation) (uuid.UUID, error) {
	const query = `
		INSERT INTO reservations (
			id, user_id, court_id, facility_id, starts_at, ends_at, status,
			price_cents, price_rule_id, promotion_id, payment_method, paid,
			note, confirmation_code, cancel_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		res.ID(),
		res.UserID(),
		res.CourtID(),
		res.FacilityID(),
		res.Slot().Start(),
		res.Slot().End(),
		res.Status().String(),
		res.Price().Cents(),
		pgconv.UUIDPtrToPgtype(res.PriceRuleID()),
		pgconv.UUIDPtrToPgtype(res.PromotionID()),
		paymentMethodToPgtype(res.PaymentMethod()),
		res.Paid(),
		noteToPgtype(res.Note()),
		res.ConfirmationCode(),
		pgconv.StringPtrToPgtype(res.CancelReason()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}
	return id, nil
}

// Update persists the mutable fields after a state-machine transition.
func (r *ReservationRepository) Update(ctx context.Context, res *booking.Reservation) error {
	const query = `
		UPDATE reservations
		SET starts_at = $2, ends_at = $3, status = $4, payment_method = $5,
			paid = $6, note = $7, cancel_reason = $8, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		res.ID(),
		res.Slot().Start(),
		res.Slot().End(),
		res.Status().String(),
		paymentMethodToPgtype(res.PaymentMethod()),
		res.Paid(),
		noteToPgtype(res.Note()),
		pgconv.StringPtrToPgtype(res.CancelReason()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// Get loads the aggregate without locking.
func (r *ReservationRepository) Get(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load reservation", err)
	}
	return res, nil
}

// GetForUpdate loads the aggregate and locks its row for the remainder of
// the transaction, so concurrent transitions serialize.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load reservation", err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*booking.Reservation, error) {
	var (
		id, userID, courtID, facilityID uuid.UUID
		startsAt, endsAt                time.Time
		status                          string
		priceCents                      int64
		priceRuleID, promotionID        pgtype.UUID
		paymentMethod                   pgtype.Text
		paid                            bool
		note, cancelReason              pgtype.Text
		confirmationCode                string
		createdAt, updatedAt            time.Time
	)
	if err := row.Scan(
		&id, &userID, &courtID, &facilityID, &startsAt, &endsAt, &status,
		&priceCents, &priceRuleID, &promotionID, &paymentMethod, &paid,
		&note, &confirmationCode, &cancelReason, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(startsAt, endsAt)
	if err != nil {
		return nil, err
	}

	var method *booking.PaymentMethod
	if paymentMethod.Valid {
		m := booking.PaymentMethod(paymentMethod.String)
		method = &m
	}
	var noteValue string
	if note.Valid {
		noteValue = note.String
	}

	return booking.ReconstructReservation(
		id, userID, courtID, facilityID,
		slot,
		booking.Status(status),
		booking.NewMoney(priceCents),
		pgconv.UUIDPtrFromPgtype(priceRuleID),
		pgconv.UUIDPtrFromPgtype(promotionID),
		method,
		paid,
		booking.NewNote(noteValue),
		confirmationCode,
		pgconv.StringPtrFromPgtype(cancelReason),
		createdAt, updatedAt,
	), nil
}

func paymentMethodToPgtype(m *booking.PaymentMethod) pgtype.Text {
	if m == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: m.String(), Valid: true}
}

func noteToPgtype(n booking.Note) pgtype.Text {
	if n.IsEmpty() {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: n.String(), Valid: true}
}
