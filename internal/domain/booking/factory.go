package booking

import (
	"courtbook/internal/domain/court"
	"courtbook/internal/pkg/clock"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/google/uuid"
)

const (
	confirmationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	confirmationCodeLength   = 8
)

// PriceQuote is the pricing breakdown attached to a reservation at
// creation time.
type PriceQuote struct {
	BaseCents     int64
	DiscountCents int64
	TotalCents    int64
	RuleID        uuid.UUID
	PromotionID   *uuid.UUID
}

// PriceQuoter resolves the price of a slot on a court. Implemented by the
// pricing resolver on the usecase side.
type PriceQuoter interface {
	QuoteSlot(courtID uuid.UUID, slot TimeSlot) (PriceQuote, error)
}

type Factory struct {
	Clock  clock.Clock
	Quoter PriceQuoter
}

func NewFactory(clk clock.Clock, quoter PriceQuoter) *Factory {
	return &Factory{Clock: clk, Quoter: quoter}
}

// CreateReservation applies the create-time guards and resolves the price.
// Availability is not checked here; the store's exclusion constraint and
// the usecase-level availability check own that concern.
func (f *Factory) CreateReservation(
	courtEntity *court.Court,
	userID uuid.UUID,
	slot TimeSlot,
	paymentMethod *PaymentMethod,
	note Note,
) (*Reservation, error) {
	if err := ValidateSlotForBooking(slot, f.Clock.Now()); err != nil {
		return nil, err
	}

	quote, err := f.Quoter.QuoteSlot(courtEntity.ID(), slot)
	if err != nil {
		return nil, err
	}
	if quote.TotalCents < 0 {
		return nil, ErrNegativePrice
	}

	code, err := gonanoid.Generate(confirmationCodeAlphabet, confirmationCodeLength)
	if err != nil {
		return nil, err
	}

	ruleID := quote.RuleID
	return NewReservation(
		uuid.New(),
		userID,
		courtEntity.ID(),
		courtEntity.FacilityID(),
		slot,
		NewMoney(quote.TotalCents),
		&ruleID,
		quote.PromotionID,
		paymentMethod,
		note,
		code,
	)
}
