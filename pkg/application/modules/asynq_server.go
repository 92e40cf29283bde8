package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

type AsynqServer struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
	Concurrency   int
}

func (s AsynqServer) RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.RedisAddress,
		Username: s.RedisUsername,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	}
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.RedisConnOpt(), asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: max(s.Concurrency, 1),
			Logger:      asynqLogger(),
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		<-ctx.Done()
		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		return nil
	})
}

// AsynqScheduler enqueues periodic tasks for the asynq server.
type AsynqScheduler struct {
	Server AsynqServer
}

type AsynqPeriodicTask struct {
	CronSpec string
	Task     *asynq.Task
	Options  []asynq.Option
}

func (s AsynqScheduler) Run(ctx context.Context, g *errgroup.Group, tasks ...AsynqPeriodicTask) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.Server.RedisConnOpt(), &asynq.SchedulerOpts{
			Logger: asynqLogger(),
		})

		for _, t := range tasks {
			entryID, err := scheduler.Register(t.CronSpec, t.Task, t.Options...)
			if err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", t.Task.Type(), err)
			}

			logger(ctx).Info("periodic task registered",
				slog.String("task", t.Task.Type()),
				slog.String("spec", t.CronSpec),
				slog.String("entry", entryID),
			)
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		<-ctx.Done()
		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}

// asynqLogger routes asynq's internal logging through zap; asynq only
// accepts its own printf-style Logger interface.
func asynqLogger() asynq.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
