package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeSlot       = errors.New("invalid time slot")
	ErrStartNotInFuture      = errors.New("slot must start in the future")
	ErrBookingHorizon        = errors.New("slot starts beyond the booking horizon")
	ErrDurationOutOfRange    = errors.New("slot duration out of allowed range")
	ErrNegativePrice         = errors.New("price cannot be negative")
	ErrInvalidTransition     = errors.New("transition not allowed from current status")
	ErrEditLocked            = errors.New("reservation is inside its edit lock window")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrInvalidStatus         = errors.New("invalid reservation status")
)

const (
	MinDuration    = 1 * time.Hour
	MaxDuration    = 8 * time.Hour
	BookingHorizon = 30 * 24 * time.Hour
	// EditLockWindow is the period before a confirmed reservation's start
	// during which reschedules and edits are rejected.
	EditLockWindow = 24 * time.Hour
)

// Reservation is the aggregate guarding the lifecycle of a single booking.
// Mutations go through the transition methods; a cancelled reservation is
// kept as history, never deleted.
type Reservation struct {
	id               uuid.UUID
	userID           uuid.UUID
	courtID          uuid.UUID
	facilityID       uuid.UUID
	slot             TimeSlot
	status           Status
	price            Money
	priceRuleID      *uuid.UUID
	promotionID      *uuid.UUID
	paymentMethod    *PaymentMethod
	paid             bool
	note             Note
	confirmationCode string
	cancelReason     *string
	createdAt        time.Time
	updatedAt        time.Time
}

// ValidateSlotForBooking applies the create-time guards shared by
// reservations and holds: strictly future start, bounded duration, bounded
// advance horizon.
func ValidateSlotForBooking(slot TimeSlot, now time.Time) error {
	if !slot.Start().After(now) {
		return ErrStartNotInFuture
	}
	if slot.Start().After(now.Add(BookingHorizon)) {
		return ErrBookingHorizon
	}
	d := slot.Duration()
	if d < MinDuration || d > MaxDuration {
		return ErrDurationOutOfRange
	}
	return nil
}

func NewReservation(
	id uuid.UUID,
	userID, courtID, facilityID uuid.UUID,
	slot TimeSlot,
	price Money,
	priceRuleID *uuid.UUID,
	promotionID *uuid.UUID,
	paymentMethod *PaymentMethod,
	note Note,
	confirmationCode string,
) (*Reservation, error) {
	if slot.IsZero() {
		return nil, ErrInvalidTimeSlot
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if paymentMethod != nil && !paymentMethod.IsValid() {
		return nil, ErrPaymentMethodRequired
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Reservation{
		id:               id,
		userID:           userID,
		courtID:          courtID,
		facilityID:       facilityID,
		slot:             slot,
		status:           StatusPending,
		price:            price,
		priceRuleID:      priceRuleID,
		promotionID:      promotionID,
		paymentMethod:    paymentMethod,
		note:             note,
		confirmationCode: confirmationCode,
	}, nil
}

func ReconstructReservation(
	id, userID, courtID, facilityID uuid.UUID,
	slot TimeSlot,
	status Status,
	price Money,
	priceRuleID, promotionID *uuid.UUID,
	paymentMethod *PaymentMethod,
	paid bool,
	note Note,
	confirmationCode string,
	cancelReason *string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		userID:           userID,
		courtID:          courtID,
		facilityID:       facilityID,
		slot:             slot,
		status:           status,
		price:            price,
		priceRuleID:      priceRuleID,
		promotionID:      promotionID,
		paymentMethod:    paymentMethod,
		paid:             paid,
		note:             note,
		confirmationCode: confirmationCode,
		cancelReason:     cancelReason,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Confirm moves PENDING to CONFIRMED and marks the reservation paid.
// Confirming an already confirmed reservation is a no-op, so retried
// payment callbacks do not fail.
func (r *Reservation) Confirm(method PaymentMethod) error {
	if r.status == StatusConfirmed {
		return nil
	}
	if !method.IsValid() {
		return ErrPaymentMethodRequired
	}
	if !r.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	r.status = StatusConfirmed
	r.paymentMethod = &method
	r.paid = true
	return nil
}

// Cancel records the cancellation and its reason. Any cancellation-fee
// policy is the caller's concern, not the engine's.
func (r *Reservation) Cancel(reason *string) error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	r.status = StatusCancelled
	r.cancelReason = reason
	return nil
}

// CheckIn marks attendance on a confirmed reservation.
func (r *Reservation) CheckIn() error {
	if !r.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	r.status = StatusCompleted
	return nil
}

// MarkNoShow records non-attendance, optionally with observations.
func (r *Reservation) MarkNoShow(observations *string) error {
	if !r.status.CanTransitionTo(StatusNoShow) {
		return ErrInvalidTransition
	}
	r.status = StatusNoShow
	if observations != nil {
		r.note = NewNote(*observations)
	}
	return nil
}

// Reschedule replaces the slot of a live reservation. Confirmed
// reservations inside the edit lock window reject any change; the caller
// must have re-checked availability for the new slot excluding this
// reservation's own id.
func (r *Reservation) Reschedule(slot TimeSlot, now time.Time) error {
	if err := r.EnsureEditable(now); err != nil {
		return err
	}
	if err := ValidateSlotForBooking(slot, now); err != nil {
		return err
	}
	r.slot = slot
	return nil
}

// EnsureEditable guards every field-level edit, not just slot changes.
func (r *Reservation) EnsureEditable(now time.Time) error {
	if r.status.IsTerminal() {
		return ErrInvalidTransition
	}
	if r.status == StatusConfirmed && r.slot.Start().Sub(now) < EditLockWindow {
		return ErrEditLocked
	}
	return nil
}

func (r *Reservation) UpdateNote(note Note) error {
	r.note = note
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status.OccupiesSlot()
}

func (r *Reservation) HasExpired(now time.Time) bool {
	return now.After(r.slot.End())
}

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) UserID() uuid.UUID              { return r.userID }
func (r *Reservation) CourtID() uuid.UUID             { return r.courtID }
func (r *Reservation) FacilityID() uuid.UUID          { return r.facilityID }
func (r *Reservation) Slot() TimeSlot                 { return r.slot }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) Price() Money                   { return r.price }
func (r *Reservation) PriceRuleID() *uuid.UUID        { return r.priceRuleID }
func (r *Reservation) PromotionID() *uuid.UUID        { return r.promotionID }
func (r *Reservation) PaymentMethod() *PaymentMethod  { return r.paymentMethod }
func (r *Reservation) Paid() bool                     { return r.paid }
func (r *Reservation) Note() Note                     { return r.note }
func (r *Reservation) ConfirmationCode() string       { return r.confirmationCode }
func (r *Reservation) CancelReason() *string          { return r.cancelReason }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }
