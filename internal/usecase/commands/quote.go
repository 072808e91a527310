package commands

import (
	"context"

	"courtbook/internal/domain/booking"
	"courtbook/internal/infra"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuoteCommands interface {
	// Quote prices a slot and, when requested, takes a TTL hold on it so
	// the price survives a short payment flow. Without a hold the result
	// is purely informational.
	Quote(ctx context.Context, cmd QuoteCommand, actor shared.Actor) (*QuoteResult, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID, actor shared.Actor) error
}

type quoteCommandsImpl struct {
	uow         shared.UnitOfWork
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewQuoteCommands(uow shared.UnitOfWork, invalidator AvailabilityInvalidator, clk clock.Clock) QuoteCommands {
	return &quoteCommandsImpl{uow: uow, invalidator: invalidator, clock: clk}
}

func (u *quoteCommandsImpl) Quote(ctx context.Context, cmd QuoteCommand, actor shared.Actor) (*QuoteResult, error) {
	slot, err := booking.NewTimeSlot(cmd.StartsAt, cmd.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if err := booking.ValidateSlotForBooking(slot, u.clock.Now()); err != nil {
		return nil, mapDomainErr(err)
	}

	if !cmd.Hold {
		return u.quoteOnly(ctx, cmd.CourtID, slot)
	}
	return u.quoteAndHold(ctx, cmd, actor, slot)
}

func (u *quoteCommandsImpl) quoteOnly(ctx context.Context, courtID uuid.UUID, slot booking.TimeSlot) (*QuoteResult, error) {
	reads := u.uow.Reads()
	_, snap, err := loadBookableCourt(ctx, reads, courtID)
	if err != nil {
		return nil, err
	}

	if err := ensureSlotAvailable(ctx, reads, snap, slot, shared.BusyFilter{Now: u.clock.Now()}); err != nil {
		return nil, err
	}

	quote, err := storeQuoter{ctx: ctx, reads: reads, facilityID: snap.FacilityID}.QuoteSlot(courtID, slot)
	if err != nil {
		return nil, err
	}
	return quoteResult(courtID, slot, quote, nil), nil
}

// quoteAndHold runs serializable for the same reason creates do: the
// availability check and the hold insert must commit as one decision.
func (u *quoteCommandsImpl) quoteAndHold(ctx context.Context, cmd QuoteCommand, actor shared.Actor, slot booking.TimeSlot) (*QuoteResult, error) {
	var result *QuoteResult
	err := u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, snap, err := loadBookableCourt(ctx, tx.Reads(), cmd.CourtID)
		if err != nil {
			return err
		}

		now := u.clock.Now()
		if err := ensureSlotAvailable(ctx, tx.Reads(), snap, slot, shared.BusyFilter{Now: now}); err != nil {
			return err
		}

		quote, err := storeQuoter{ctx: ctx, reads: tx.Reads(), facilityID: snap.FacilityID}.QuoteSlot(cmd.CourtID, slot)
		if err != nil {
			return err
		}

		hold, err := booking.NewHold(cmd.CourtID, actor.ID, slot, cmd.HoldTTL, now)
		if err != nil {
			return mapDomainErr(err)
		}
		if err := tx.Holds().Create(ctx, hold); err != nil {
			return mapStoreErr(err)
		}

		holdID := hold.ID()
		expiresAt := hold.ExpiresAt()
		result = quoteResult(cmd.CourtID, slot, quote, &holdID)
		result.HoldExpiresAt = &expiresAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateSlotDays(ctx, u.invalidator, cmd.CourtID, slot.Start(), slot.End())
	return result, nil
}

func (u *quoteCommandsImpl) ReleaseHold(ctx context.Context, holdID uuid.UUID, actor shared.Actor) error {
	var courtID uuid.UUID
	var slot booking.TimeSlot
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		hold, err := tx.Reads().HoldByID(ctx, holdID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrHoldNotFound
			}
			return mapStoreErr(err)
		}
		if !actor.CanManage(hold.UserID()) {
			return errs.ErrHoldNotFound
		}
		if err := tx.Holds().Delete(ctx, holdID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrHoldNotFound
			}
			return mapStoreErr(err)
		}
		courtID = hold.CourtID()
		slot = hold.Slot()
		return nil
	})
	if err != nil {
		return err
	}

	invalidateSlotDays(ctx, u.invalidator, courtID, slot.Start(), slot.End())
	return nil
}

func quoteResult(courtID uuid.UUID, slot booking.TimeSlot, quote booking.PriceQuote, holdID *uuid.UUID) *QuoteResult {
	return &QuoteResult{
		CourtID:       courtID,
		StartsAt:      slot.Start(),
		EndsAt:        slot.End(),
		BaseCents:     quote.BaseCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		RuleID:        quote.RuleID,
		PromotionID:   quote.PromotionID,
		HoldID:        holdID,
	}
}
