//go:build unit || e2e

package builder

import (
	"time"

	"courtbook/internal/domain/booking"
	reqdto "courtbook/internal/handler/dto/request"
	"courtbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	CourtID          uuid.UUID
	FacilityID       uuid.UUID
	CourtName        string
	StartsAt         time.Time
	EndsAt           time.Time
	Status           string
	PriceCents       int64
	PriceRuleID      *uuid.UUID
	PromotionID      *uuid.UUID
	PaymentMethod    *string
	Paid             bool
	Note             string
	ConfirmationCode string
	CancelReason     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC().Truncate(time.Hour)
	ruleID := uuid.New()
	return &ReservationBuilder{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		CourtID:          uuid.New(),
		FacilityID:       uuid.New(),
		CourtName:        "Center Court",
		StartsAt:         now.Add(48 * time.Hour),
		EndsAt:           now.Add(50 * time.Hour),
		Status:           "pending",
		PriceCents:       4000,
		PriceRuleID:      &ruleID,
		Note:             "bring two rackets",
		ConfirmationCode: "ABCD2345",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ReservationBuilder) BuildDomain() (*booking.Reservation, error) {
	slot, err := booking.NewTimeSlot(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	var method *booking.PaymentMethod
	if b.PaymentMethod != nil {
		m := booking.PaymentMethod(*b.PaymentMethod)
		method = &m
	}
	return booking.NewReservation(
		b.ID,
		b.UserID, b.CourtID, b.FacilityID,
		slot,
		booking.NewMoney(b.PriceCents),
		b.PriceRuleID,
		b.PromotionID,
		method,
		booking.NewNote(b.Note),
		b.ConfirmationCode,
	)
}

// BuildReconstructed bypasses create-time validation, so tests can stage
// reservations in any lifecycle state.
func (b *ReservationBuilder) BuildReconstructed() *booking.Reservation {
	slot, _ := booking.NewTimeSlot(b.StartsAt, b.EndsAt)
	var method *booking.PaymentMethod
	if b.PaymentMethod != nil {
		m := booking.PaymentMethod(*b.PaymentMethod)
		method = &m
	}
	return booking.ReconstructReservation(
		b.ID, b.UserID, b.CourtID, b.FacilityID,
		slot,
		booking.Status(b.Status),
		booking.NewMoney(b.PriceCents),
		b.PriceRuleID, b.PromotionID,
		method,
		b.Paid,
		booking.NewNote(b.Note),
		b.ConfirmationCode,
		b.CancelReason,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	var note *string
	if b.Note != "" {
		n := b.Note
		note = &n
	}
	return &queries.ReservationView{
		ID:               b.ID,
		CourtID:          b.CourtID,
		CourtName:        b.CourtName,
		FacilityID:       b.FacilityID,
		UserID:           b.UserID,
		StartsAt:         b.StartsAt,
		EndsAt:           b.EndsAt,
		Status:           b.Status,
		PriceCents:       b.PriceCents,
		PaymentMethod:    b.PaymentMethod,
		Paid:             b.Paid,
		Note:             note,
		ConfirmationCode: b.ConfirmationCode,
		CancelReason:     b.CancelReason,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (b *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:         b.ID,
		CourtID:    b.CourtID,
		CourtName:  b.CourtName,
		StartsAt:   b.StartsAt,
		EndsAt:     b.EndsAt,
		Status:     b.Status,
		PriceCents: b.PriceCents,
		CreatedAt:  b.CreatedAt,
	}
}

func (b *ReservationBuilder) BuildCreateRequest() reqdto.CreateReservationRequest {
	var note *string
	if b.Note != "" {
		n := b.Note
		note = &n
	}
	return reqdto.CreateReservationRequest{
		CourtID:       b.CourtID,
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		PaymentMethod: b.PaymentMethod,
		Note:          note,
	}
}

// Fluent builder methods
func (b *ReservationBuilder) WithSlot(start, end time.Time) *ReservationBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithUserID(id uuid.UUID) *ReservationBuilder {
	b.UserID = id
	return b
}

func (b *ReservationBuilder) WithPaymentMethod(method string) *ReservationBuilder {
	b.PaymentMethod = &method
	return b
}

func (b *ReservationBuilder) WithPriceCents(cents int64) *ReservationBuilder {
	b.PriceCents = cents
	return b
}
