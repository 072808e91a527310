package main

import (
	"context"
	"log/slog"
	"os"

	"courtbook/cmd/bootstrap"
	"courtbook/cmd/bootstrap/components"
	"courtbook/internal/infra/jobs"
	"courtbook/internal/infra/readstore"
	"courtbook/internal/infra/uow"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func startWorker(lc fx.Lifecycle, cfg config.Config, handlers *jobs.Handlers, logger *slog.Logger) error {
	srv, mux := jobs.NewServer(cfg, handlers)
	scheduler, err := jobs.NewScheduler(cfg)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting worker", "concurrency", cfg.Worker.Concurrency)
			if err := srv.Start(mux); err != nil {
				return err
			}
			return scheduler.Start()
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping worker")
			scheduler.Shutdown()
			srv.Shutdown()
			return nil
		},
	})
	return nil
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		bootstrap.ConfigModule,
		bootstrap.DBModule,
		fx.Provide(
			func(config.Config) *slog.Logger {
				return slog.New(slog.NewJSONHandler(os.Stdout, nil))
			},
			components.NewDBTX,
			uow.NewPostgresUoW,
			clock.NewRealClock,
			fx.Annotate(
				readstore.NewReservationReadStore,
				fx.As(new(jobs.ReservationFinder)),
			),
			jobs.NewHandlers,
		),
		fx.Invoke(startWorker),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop worker cleanly", "error", err)
	}

	slog.Info("worker stopped")
}
