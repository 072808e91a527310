package commands

import (
	"context"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// ensureSlotAvailable is the write-time availability check. It re-derives
// the calendar from the store inside the caller's transaction: open hours
// minus blackouts, minus occupying reservations and live holds. The slot
// must fit entirely inside one free interval.
func ensureSlotAvailable(
	ctx context.Context,
	reads shared.CommandReads,
	court *shared.CourtSnapshot,
	slot booking.TimeSlot,
	filter shared.BusyFilter,
) error {
	req := schedule.Interval{Start: slot.Start(), End: slot.End()}

	windows, err := reads.OperatingWindows(ctx, court.FacilityID)
	if err != nil {
		return mapStoreErr(err)
	}
	blackouts, err := reads.Blackouts(ctx, court.ID)
	if err != nil {
		return mapStoreErr(err)
	}

	// A slot may cross midnight, so resolve every day it touches.
	var open []schedule.Interval
	for day := schedule.DayBounds(slot.Start()).Start; day.Before(slot.End()); day = day.AddDate(0, 0, 1) {
		open = append(open, schedule.ResolveDay(day, court.ID, court.FacilityID, windows, blackouts)...)
	}
	open = schedule.Merge(open)

	busy, err := reads.BusyIntervals(ctx, court.ID, req, filter)
	if err != nil {
		return mapStoreErr(err)
	}

	free := schedule.FreeIntervals(open, busy)
	if !schedule.ContainedInAny(free, req) {
		return errs.ErrSlotConflict
	}
	return nil
}

// storeQuoter adapts the command reads to the factory's pricing port for
// the duration of one request.
type storeQuoter struct {
	ctx        context.Context
	reads      shared.CommandReads
	facilityID uuid.UUID
}

func (q storeQuoter) QuoteSlot(courtID uuid.UUID, slot booking.TimeSlot) (booking.PriceQuote, error) {
	rules, err := q.reads.PricingRules(q.ctx, courtID)
	if err != nil {
		return booking.PriceQuote{}, mapStoreErr(err)
	}
	promotions, err := q.reads.Promotions(q.ctx, courtID, q.facilityID)
	if err != nil {
		return booking.PriceQuote{}, mapStoreErr(err)
	}

	quote, err := pricing.ComputeQuote(courtID, q.facilityID, slot.Start(), slot.Duration(), rules, promotions)
	if err != nil {
		return booking.PriceQuote{}, mapDomainErr(err)
	}
	return booking.PriceQuote{
		BaseCents:     quote.BaseCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		RuleID:        quote.RuleID,
		PromotionID:   quote.PromotionID,
	}, nil
}
