package shared

import (
	"context"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"

	"github.com/google/uuid"
)

// UnitOfWork scopes repository work to a database transaction.
type UnitOfWork interface {
	// Within: ReadCommitted transaction for plain writes, with retry on
	// serialization failure and deadlock.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinSerializable: booking and hold writes run serializable so the
	// availability check and the insert commit as one atomic decision.
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: direct access for validation reads outside transactions.
	Reads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Holds() HoldRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
}

// CommandReads are the write-side reads: every availability input is
// re-derived from the store, never from a cached slot list.
type CommandReads interface {
	CourtByID(ctx context.Context, id uuid.UUID) (*CourtSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	HoldByID(ctx context.Context, id uuid.UUID) (*booking.Hold, error)
	OperatingWindows(ctx context.Context, facilityID uuid.UUID) ([]schedule.OperatingWindow, error)
	Blackouts(ctx context.Context, courtID uuid.UUID) ([]schedule.Blackout, error)
	PricingRules(ctx context.Context, courtID uuid.UUID) ([]pricing.Rule, error)
	Promotions(ctx context.Context, courtID, facilityID uuid.UUID) ([]pricing.Promotion, error)
	// BusyIntervals lists the non-released reservations and live holds
	// overlapping the window, clipped by the filter.
	BusyIntervals(ctx context.Context, courtID uuid.UUID, within schedule.Interval, filter BusyFilter) ([]schedule.Busy, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// BusyFilter narrows a busy-interval read. Now is the liveness cutoff for
// holds: a hold whose expiry has passed no longer occupies the calendar.
type BusyFilter struct {
	ExcludeReservationID *uuid.UUID
	ExcludeHoldID        *uuid.UUID
	Now                  time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, res *booking.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, res *booking.Reservation) error
	// GetForUpdate locks the row for the remainder of the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
}

type HoldRepository interface {
	Create(ctx context.Context, hold *booking.Hold) error
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key; false means another request holds it and
	// the caller must consult the stored record.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, resultReservationID uuid.UUID) error
}

// Write-side snapshots prevent dependency on read-side query types.
type CourtSnapshot struct {
	ID         uuid.UUID
	FacilityID uuid.UUID
	Name       string
	Surface    string
	Indoor     bool
	Active     bool
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}
