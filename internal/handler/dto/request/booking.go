package request

import (
	"strings"
	"time"

	"courtbook/internal/pkg/patch"
	"courtbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	CourtID       uuid.UUID  `json:"court_id" binding:"required"`
	StartsAt      time.Time  `json:"starts_at" binding:"required"`
	EndsAt        time.Time  `json:"ends_at" binding:"required"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Note          *string    `json:"note,omitempty"`
	HoldID        *uuid.UUID `json:"hold_id,omitempty"`
}

func (r CreateReservationRequest) ToCommand() commands.CreateReservationCommand {
	note := strings.TrimSpace(patch.Coalesce(r.Note, ""))
	return commands.CreateReservationCommand{
		CourtID:       r.CourtID,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		PaymentMethod: r.PaymentMethod,
		Note:          note,
		HoldID:        r.HoldID,
	}
}

type RescheduleReservationRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Note     *string   `json:"note,omitempty"`
}

func (r RescheduleReservationRequest) ToCommand() commands.RescheduleCommand {
	return commands.RescheduleCommand{
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		Note:     r.Note,
	}
}

type ConfirmReservationRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type NoShowRequest struct {
	Observations *string `json:"observations,omitempty"`
}

type QuoteRequest struct {
	CourtID        uuid.UUID `json:"court_id" binding:"required"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	EndsAt         time.Time `json:"ends_at" binding:"required"`
	Hold           bool      `json:"hold,omitempty"`
	HoldTTLSeconds int       `json:"hold_ttl_seconds,omitempty"`
}

func (r QuoteRequest) ToCommand() commands.QuoteCommand {
	return commands.QuoteCommand{
		CourtID:  r.CourtID,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		Hold:     r.Hold,
		HoldTTL:  time.Duration(r.HoldTTLSeconds) * time.Second,
	}
}
