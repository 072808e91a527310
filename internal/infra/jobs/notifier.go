package jobs

import (
	"context"
	"log/slog"

	"courtbook/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func NewAsynqClient(cfg config.RedisConfig) (*asynq.Client, func()) {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close asynq client", "error", err)
		}
	}
	return client, cleanup
}

// AsynqNotifier enqueues reservation lifecycle notifications after the
// owning transaction commits. Enqueue failures are logged and swallowed:
// a lost notification must not roll back a booking.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) ReservationEvent(ctx context.Context, event string, reservationID uuid.UUID) {
	task, err := NewReservationNotifyTask(reservationID, event)
	if err != nil {
		slog.Error("failed to build notification task", "event", event, "error", err)
		return
	}
	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		slog.Error("failed to enqueue notification task",
			"event", event,
			"reservation_id", reservationID,
			"error", err)
		return
	}
	slog.Debug("notification task enqueued",
		"event", event,
		"reservation_id", reservationID,
		"task_id", info.ID)
}
