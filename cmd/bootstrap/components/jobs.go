package components

import (
	"context"

	"courtbook/internal/infra/jobs"
	"courtbook/internal/pkg/config"
	"courtbook/internal/usecase/commands"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewAsynqClient,
		fx.Annotate(
			jobs.NewAsynqNotifier,
			fx.As(new(commands.Notifier)),
		),
	),
)

func NewAsynqClient(lc fx.Lifecycle, cfg config.Config) *asynq.Client {
	client, cleanup := jobs.NewAsynqClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return client
}
