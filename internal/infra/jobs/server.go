package jobs

import (
	"fmt"
	"log/slog"

	"courtbook/internal/pkg/config"

	"github.com/hibiken/asynq"
)

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewServer(cfg config.Config, handlers *Handlers) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Logger:      slogAdapter{},
	})

	mux := asynq.NewServeMux()
	handlers.Register(mux)
	return srv, mux
}

// NewScheduler enqueues the periodic hold purge.
func NewScheduler(cfg config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(cfg.Redis), &asynq.SchedulerOpts{
		Logger: slogAdapter{},
	})

	spec := fmt.Sprintf("@every %s", cfg.Worker.HoldPurgeInterval)
	if _, err := scheduler.Register(spec, NewHoldPurgeTask()); err != nil {
		return nil, fmt.Errorf("failed to register hold purge task: %w", err)
	}
	return scheduler, nil
}

type slogAdapter struct{}

func (slogAdapter) Debug(args ...any) { slog.Debug(fmt.Sprint(args...)) }
func (slogAdapter) Info(args ...any)  { slog.Info(fmt.Sprint(args...)) }
func (slogAdapter) Warn(args ...any)  { slog.Warn(fmt.Sprint(args...)) }
func (slogAdapter) Error(args ...any) { slog.Error(fmt.Sprint(args...)) }
func (slogAdapter) Fatal(args ...any) { slog.Error(fmt.Sprint(args...)) }
