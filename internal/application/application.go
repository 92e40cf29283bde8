// Package application wires the discovery pipeline and runs its servers.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"deal_scout/internal/config"
	"deal_scout/internal/server"
	"deal_scout/internal/transport/bot"
	"deal_scout/internal/transport/bot/handler"
	"deal_scout/internal/worker"
	"deal_scout/pkg/application/modules"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/probe"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type scanTrigger interface {
	Trigger(ctx context.Context) (string, error)
}

// Run serves the API, the admin bot and the scan schedule until ctx is done.
// With redis configured passes go through the asynq queue, otherwise a local
// ticker drives them.
func Run(ctx context.Context, cfg config.Config, version string) error {
	pipeline, err := BuildPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("BuildPipeline: %w", err)
	}
	defer pipeline.Close(context.WithoutCancel(ctx))

	scanWorker := worker.NewScanWorker(pipeline.Planner).
		WithTimeout(cfg.Planner.PassTimeout).
		WithInterval(cfg.Planner.Interval)

	asynqServer := modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   1,
	}

	var trigger scanTrigger = scanWorker

	if cfg.Redis.Enabled() {
		client := asynq.NewClient(asynqServer.RedisConnOpt())
		defer func() {
			if err := client.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		trigger = worker.NewEnqueuer(client, cfg.Planner.PassTimeout)
	}

	var adminBot *bot.Bot

	if cfg.Bot.Enabled() && cfg.Bot.AdminID != 0 {
		adminBot, err = bot.New(cfg.Bot.Token, cfg.Bot.AdminID, handler.New(pipeline.Planner, trigger))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	checks := map[string]probe.Check{
		"postgres": pipeline.Postgres.Ping,
	}
	if pipeline.Redis != nil {
		checks["redis"] = pipeline.Redis.Ping
	}

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       version,
		ListenAddress: cfg.App.ProbeAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		Name:          cfg.App.Name,
		Version:       version,
		ListenAddress: cfg.App.MetricsAddress,
	}.Run(ctx, g)

	if cfg.Redis.Enabled() {
		asynqServer.Run(ctx, g,
			modules.AsynqQueues{worker.QueueScans: 1},
			modules.AsynqHandler{Pattern: worker.TypeScan, Handle: scanWorker.HandleScanTask},
		)

		modules.AsynqScheduler{Server: asynqServer}.Run(ctx, g, modules.AsynqPeriodicTask{
			CronSpec: "@every " + scanWorker.Interval().String(),
			Task:     worker.NewScanTask(),
			Options:  worker.ScanTaskOptions(cfg.Planner.PassTimeout),
		})
	} else {
		g.Go(func() error {
			return scanWorker.Run(ctx)
		})
	}

	modules.HTTPServer{
		Address: cfg.HTTP.Address,
		Handler: server.NewRouter(server.NewServer(pipeline.Planner, trigger), server.RouterOptions{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			LogFieldMaxLen: cfg.App.LogFieldMaxLen,
		}),
		// a synchronous scan holds the response for up to one pass
		WriteTimeout:    cfg.Planner.PassTimeout + cfg.HTTP.ShutdownTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g)

	if adminBot != nil {
		g.Go(func() error {
			return adminBot.Run(ctx)
		})
	}

	logger(ctx).Info("application started",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, version),
		slog.Bool("queue", cfg.Redis.Enabled()),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
