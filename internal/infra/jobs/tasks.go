package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeReservationNotify = "reservation:notify"
	TypeHoldPurge         = "hold:purge"
)

// ReservationNotifyPayload carries just the identifiers; the handler
// re-reads the reservation so the notification reflects its state at
// delivery time, not at enqueue time.
type ReservationNotifyPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Event         string    `json:"event"`
}

func NewReservationNotifyTask(reservationID uuid.UUID, event string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReservationNotifyPayload{
		ReservationID: reservationID,
		Event:         event,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReservationNotify, payload,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewHoldPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeHoldPurge, nil,
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
}
