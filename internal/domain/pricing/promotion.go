package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPromotionValue = errors.New("invalid promotion value")

type PromotionKind string

const (
	PromotionPercentage  PromotionKind = "percentage"
	PromotionFixedAmount PromotionKind = "fixed_amount"
)

// Promotion discounts a quoted price for a whole facility or one court.
// Exactly one of FacilityID/CourtID is set.
type Promotion struct {
	ID             uuid.UUID
	FacilityID     *uuid.UUID
	CourtID        *uuid.UUID
	Kind           PromotionKind
	PercentOff     float64
	AmountOffCents int64
	Active         bool
	ValidFrom      *time.Time
	ValidTo        *time.Time
}

func NewPercentagePromotion(id uuid.UUID, facilityID, courtID *uuid.UUID, percentOff float64, validFrom, validTo *time.Time) (Promotion, error) {
	if percentOff <= 0 || percentOff > 100 {
		return Promotion{}, ErrInvalidPromotionValue
	}
	return Promotion{
		ID:         id,
		FacilityID: facilityID,
		CourtID:    courtID,
		Kind:       PromotionPercentage,
		PercentOff: percentOff,
		Active:     true,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
	}, nil
}

func NewFixedAmountPromotion(id uuid.UUID, facilityID, courtID *uuid.UUID, amountOffCents int64, validFrom, validTo *time.Time) (Promotion, error) {
	if amountOffCents <= 0 {
		return Promotion{}, ErrInvalidPromotionValue
	}
	return Promotion{
		ID:             id,
		FacilityID:     facilityID,
		CourtID:        courtID,
		Kind:           PromotionFixedAmount,
		AmountOffCents: amountOffCents,
		Active:         true,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
	}, nil
}

// AppliesTo reports whether the promotion covers the court at the given
// instant.
func (p Promotion) AppliesTo(courtID, facilityID uuid.UUID, at time.Time) bool {
	if !p.Active {
		return false
	}
	if p.CourtID != nil && *p.CourtID != courtID {
		return false
	}
	if p.FacilityID != nil && *p.FacilityID != facilityID {
		return false
	}
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && at.After(*p.ValidTo) {
		return false
	}
	return true
}

// DiscountCents computes the discount against a base price. The result
// never exceeds the base, so totals cannot go negative.
func (p Promotion) DiscountCents(baseCents int64) int64 {
	var discount int64
	switch p.Kind {
	case PromotionPercentage:
		discount = roundHalfUp(float64(baseCents) * p.PercentOff / 100.0)
	case PromotionFixedAmount:
		discount = p.AmountOffCents
	}
	if discount > baseCents {
		discount = baseCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
