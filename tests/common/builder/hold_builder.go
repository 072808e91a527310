//go:build unit || e2e

package builder

import (
	"time"

	"courtbook/internal/domain/booking"

	"github.com/google/uuid"
)

type HoldBuilder struct {
	ID        uuid.UUID
	CourtID   uuid.UUID
	UserID    uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
	TTL       time.Duration
	Now       time.Time
	ExpiresAt time.Time
}

func NewHoldBuilder() *HoldBuilder {
	now := time.Now().UTC().Truncate(time.Hour)
	return &HoldBuilder{
		ID:        uuid.New(),
		CourtID:   uuid.New(),
		UserID:    uuid.New(),
		StartsAt:  now.Add(48 * time.Hour),
		EndsAt:    now.Add(50 * time.Hour),
		TTL:       booking.DefaultHoldTTL,
		Now:       now,
		ExpiresAt: now.Add(booking.DefaultHoldTTL),
	}
}

func (b *HoldBuilder) With(mutate func(*HoldBuilder)) *HoldBuilder {
	mutate(b)
	return b
}

func (b *HoldBuilder) BuildDomain() (*booking.Hold, error) {
	slot, err := booking.NewTimeSlot(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	return booking.NewHold(b.CourtID, b.UserID, slot, b.TTL, b.Now)
}

func (b *HoldBuilder) BuildReconstructed() *booking.Hold {
	slot, _ := booking.NewTimeSlot(b.StartsAt, b.EndsAt)
	return booking.ReconstructHold(b.ID, b.CourtID, b.UserID, slot, b.ExpiresAt, b.Now)
}

func (b *HoldBuilder) WithTTL(ttl time.Duration) *HoldBuilder {
	b.TTL = ttl
	return b
}

func (b *HoldBuilder) WithSlot(start, end time.Time) *HoldBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *HoldBuilder) WithUserID(id uuid.UUID) *HoldBuilder {
	b.UserID = id
	return b
}

func (b *HoldBuilder) WithExpiresAt(at time.Time) *HoldBuilder {
	b.ExpiresAt = at
	return b
}
