package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"courtbook/internal/pkg/clock"
	"courtbook/internal/usecase/queries"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type ReservationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

// Handlers processes background tasks on the worker.
type Handlers struct {
	uow          shared.UnitOfWork
	reservations ReservationFinder
	clock        clock.Clock
}

func NewHandlers(uow shared.UnitOfWork, reservations ReservationFinder, clk clock.Clock) *Handlers {
	return &Handlers{
		uow:          uow,
		reservations: reservations,
		clock:        clk,
	}
}

// HandleReservationNotify is the delivery stub: it resolves the reservation
// and logs the outbound message. Real channels (mail, push) plug in here.
func (h *Handlers) HandleReservationNotify(ctx context.Context, task *asynq.Task) error {
	var payload ReservationNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode notify payload: %w: %w", err, asynq.SkipRetry)
	}

	view, err := h.reservations.FindByID(ctx, payload.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to load reservation %s: %w", payload.ReservationID, err)
	}

	slog.Info("reservation notification",
		"event", payload.Event,
		"reservation_id", view.ID,
		"user_id", view.UserID,
		"court", view.CourtName,
		"starts_at", view.StartsAt,
		"status", view.Status)
	return nil
}

// HandleHoldPurge deletes expired hold rows. Availability reads already
// ignore them, so this is housekeeping, not correctness.
func (h *Handlers) HandleHoldPurge(ctx context.Context, _ *asynq.Task) error {
	return h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		purged, err := tx.Holds().PurgeExpired(ctx, h.clock.Now())
		if err != nil {
			return err
		}
		if purged > 0 {
			slog.Info("purged expired holds", "count", purged)
		}
		return nil
	})
}

func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReservationNotify, h.HandleReservationNotify)
	mux.HandleFunc(TypeHoldPurge, h.HandleHoldPurge)
}
