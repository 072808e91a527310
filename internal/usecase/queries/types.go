package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID               uuid.UUID `json:"id"`
	CourtID          uuid.UUID `json:"court_id"`
	CourtName        string    `json:"court_name"`
	FacilityID       uuid.UUID `json:"facility_id"`
	UserID           uuid.UUID `json:"user_id"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	Status           string    `json:"status"`
	PriceCents       int64     `json:"price_cents"`
	PaymentMethod    *string   `json:"payment_method,omitempty"`
	Paid             bool      `json:"paid"`
	Note             *string   `json:"note,omitempty"`
	ConfirmationCode string    `json:"confirmation_code"`
	CancelReason     *string   `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReservationListItem struct {
	ID         uuid.UUID `json:"id"`
	CourtID    uuid.UUID `json:"court_id"`
	CourtName  string    `json:"court_name"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type CourtView struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facility_id"`
	Name       string    `json:"name"`
	Surface    string    `json:"surface"`
	Indoor     bool      `json:"indoor"`
	Active     bool      `json:"active"`
}

// AvailabilitySlot is one free or occupied sub-interval of a court's day.
// Occupied slots carry the reason (blackout, reserved, hold); free slots
// leave it empty.
type AvailabilitySlot struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
}

type AvailabilityDay struct {
	CourtID uuid.UUID          `json:"court_id"`
	Date    string             `json:"date"`
	Slots   []AvailabilitySlot `json:"slots"`
}
