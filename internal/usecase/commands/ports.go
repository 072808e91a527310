package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reservation lifecycle events pushed through the Notifier.
const (
	EventReservationCreated     = "reservation_created"
	EventReservationConfirmed   = "reservation_confirmed"
	EventReservationRescheduled = "reservation_rescheduled"
	EventReservationCancelled   = "reservation_cancelled"
	EventReservationCheckedIn   = "reservation_checked_in"
	EventReservationNoShow      = "reservation_no_show"
)

// Notifier publishes lifecycle events after the owning transaction has
// committed. Delivery is fire-and-forget; failures must not surface to
// the caller.
type Notifier interface {
	ReservationEvent(ctx context.Context, event string, reservationID uuid.UUID)
}

// AvailabilityInvalidator drops cached availability for a court and date
// after a committed mutation changes the slot map. Best effort; the
// cache TTL bounds staleness for anything it misses.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, courtID uuid.UUID, date string)
}

// invalidateSlotDays covers every date the slot touches. The end is
// exclusive, so a slot closing at midnight stays within its own day.
func invalidateSlotDays(ctx context.Context, inv AvailabilityInvalidator, courtID uuid.UUID, startsAt, endsAt time.Time) {
	if inv == nil {
		return
	}
	start := startsAt.UTC().Format("2006-01-02")
	inv.Invalidate(ctx, courtID, start)
	if end := endsAt.UTC().Add(-time.Nanosecond).Format("2006-01-02"); end != start {
		inv.Invalidate(ctx, courtID, end)
	}
}

type CreateReservationCommand struct {
	CourtID       uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	PaymentMethod *string
	Note          string
	// HoldID consumes a previously taken hold for the same slot.
	HoldID *uuid.UUID
}

type RescheduleCommand struct {
	StartsAt time.Time
	EndsAt   time.Time
	Note     *string
}

type QuoteCommand struct {
	CourtID  uuid.UUID
	StartsAt time.Time
	EndsAt   time.Time
	// Hold reserves the slot for HoldTTL while the user completes payment.
	Hold    bool
	HoldTTL time.Duration
}

type QuoteResult struct {
	CourtID       uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	BaseCents     int64
	DiscountCents int64
	TotalCents    int64
	RuleID        uuid.UUID
	PromotionID   *uuid.UUID
	HoldID        *uuid.UUID
	HoldExpiresAt *time.Time
}
