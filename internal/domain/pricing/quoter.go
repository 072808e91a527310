package pricing

import (
	"time"

	"github.com/google/uuid"
)

// Quote is the price breakdown for one (court, slot) pair.
type Quote struct {
	BaseCents     int64
	DiscountCents int64
	TotalCents    int64
	RuleID        uuid.UUID
	PromotionID   *uuid.UUID
}

// BasePriceCents prices a duration against a rule's hourly rate.
// Fractional hours are allowed; rounding happens once, half-up at the
// cent, never per sub-step.
func BasePriceCents(rule Rule, duration time.Duration) int64 {
	minutes := int64(duration / time.Minute)
	return (rule.PricePerHourCents*minutes + 30) / 60
}

// ComputeQuote selects the rule for the slot start, prices the duration,
// and applies the single most favorable promotion in scope. The total is
// floored at zero.
func ComputeQuote(
	courtID, facilityID uuid.UUID,
	slotStart time.Time,
	duration time.Duration,
	rules []Rule,
	promotions []Promotion,
) (Quote, error) {
	rule, err := SelectRule(rules, slotStart)
	if err != nil {
		return Quote{}, err
	}

	base := BasePriceCents(rule, duration)

	var best *Promotion
	var bestDiscount int64
	for i := range promotions {
		p := promotions[i]
		if !p.AppliesTo(courtID, facilityID, slotStart) {
			continue
		}
		if d := p.DiscountCents(base); d > bestDiscount {
			bestDiscount = d
			best = &p
		}
	}

	q := Quote{
		BaseCents:     base,
		DiscountCents: bestDiscount,
		TotalCents:    base - bestDiscount,
		RuleID:        rule.ID,
	}
	if q.TotalCents < 0 {
		q.TotalCents = 0
	}
	if best != nil {
		id := best.ID
		q.PromotionID = &id
	}
	return q, nil
}
