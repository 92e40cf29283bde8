// Command scanonce runs a single discovery pass and prints the new
// opportunities as JSON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"deal_scout/internal/application"
	"deal_scout/internal/config"
	"deal_scout/internal/server"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, "text", "info").Error("config load", logx.Error(err))
		return 1
	}

	// stdout is reserved for the result
	log := logx.NewLogger(os.Stderr, cfg.App.LogFormat, cfg.App.LogLevel)
	ctx = contextx.WithLogger(ctx, log)

	pipeline, err := application.BuildPipeline(ctx, cfg)
	if err != nil {
		log.Error("build pipeline", logx.Error(err))
		return 1
	}
	defer pipeline.Close(context.WithoutCancel(ctx))

	ctx, cancelPass := context.WithTimeout(ctx, cfg.Planner.PassTimeout)
	defer cancelPass()

	found, err := pipeline.Planner.RunOnce(ctx)
	if err != nil {
		log.Error("pass failed", logx.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if encErr := enc.Encode(server.NewRESTOpportunities(found)); encErr != nil {
		log.Error("encode result", logx.Error(encErr))
		return 1
	}

	if err != nil {
		return 1
	}

	return 0
}
