package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrHoldTTLOutOfRange = errors.New("hold ttl out of allowed range")

const (
	MinHoldTTL     = 2 * time.Minute
	MaxHoldTTL     = 15 * time.Minute
	DefaultHoldTTL = 5 * time.Minute
)

// Hold is a short-lived provisional occupation of a slot while a user
// completes payment. Expiry is lazy: an expired hold stops counting as
// occupied the next time availability is read, and a background purge
// removes the rows.
type Hold struct {
	id        uuid.UUID
	courtID   uuid.UUID
	userID    uuid.UUID
	slot      TimeSlot
	expiresAt time.Time
	createdAt time.Time
}

func NewHold(courtID, userID uuid.UUID, slot TimeSlot, ttl time.Duration, now time.Time) (*Hold, error) {
	if ttl == 0 {
		ttl = DefaultHoldTTL
	}
	if ttl < MinHoldTTL || ttl > MaxHoldTTL {
		return nil, ErrHoldTTLOutOfRange
	}
	if err := ValidateSlotForBooking(slot, now); err != nil {
		return nil, err
	}
	return &Hold{
		id:        uuid.New(),
		courtID:   courtID,
		userID:    userID,
		slot:      slot,
		expiresAt: now.Add(ttl),
	}, nil
}

func ReconstructHold(id, courtID, userID uuid.UUID, slot TimeSlot, expiresAt, createdAt time.Time) *Hold {
	return &Hold{
		id:        id,
		courtID:   courtID,
		userID:    userID,
		slot:      slot,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (h *Hold) IsExpired(now time.Time) bool {
	return !now.Before(h.expiresAt)
}

func (h *Hold) ID() uuid.UUID        { return h.id }
func (h *Hold) CourtID() uuid.UUID   { return h.courtID }
func (h *Hold) UserID() uuid.UUID    { return h.userID }
func (h *Hold) Slot() TimeSlot       { return h.slot }
func (h *Hold) ExpiresAt() time.Time { return h.expiresAt }
func (h *Hold) CreatedAt() time.Time { return h.createdAt }
