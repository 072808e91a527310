package commands

import (
	"errors"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/infra"
	"courtbook/internal/pkg/errs"
)

// mapDomainErr translates domain rule violations into the shared sentinel
// taxonomy so handlers map them to transport codes without knowing the
// domain packages.
func mapDomainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrStartNotInFuture),
		errors.Is(err, booking.ErrBookingHorizon):
		return errs.Mark(err, errs.ErrLeadTime)
	case errors.Is(err, booking.ErrDurationOutOfRange):
		return errs.Mark(err, errs.ErrDuration)
	case errors.Is(err, booking.ErrInvalidTimeSlot),
		errors.Is(err, booking.ErrPaymentMethodRequired),
		errors.Is(err, booking.ErrHoldTTLOutOfRange):
		return errs.Mark(err, errs.ErrValidation)
	case errors.Is(err, booking.ErrEditLocked):
		return errs.Mark(err, errs.ErrLockWindow)
	case errors.Is(err, booking.ErrInvalidTransition):
		return errs.Mark(err, errs.ErrInvalidState)
	case errors.Is(err, pricing.ErrNoMatchingRule):
		return errs.Mark(err, errs.ErrNoPricingRule)
	default:
		return err
	}
}

// mapStoreErr translates infra error kinds from a write path.
func mapStoreErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrSlotConflict)
	case infra.IsKind(err, infra.KindTimeout):
		return errs.Mark(err, errs.ErrStoreTimeout)
	case infra.IsKind(err, infra.KindDBFailure),
		infra.IsKind(err, infra.KindDuplicateKey),
		infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, errs.ErrStoreFailure)
	default:
		return err
	}
}
