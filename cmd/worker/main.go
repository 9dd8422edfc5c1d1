package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/emcoach/internal/app"
	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/queue"
	"github.com/nikhilbhutani/emcoach/internal/queue/workers"
)

const concurrency = 2

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	backends, err := app.OpenBackends(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer backends.Close()

	pipeline, sttProvider, err := app.NewPipeline(cfg, backends.UsageRecorder())
	if err != nil {
		slog.Error("failed to init pipeline", "error", err)
		os.Exit(1)
	}
	defer sttProvider.Close()

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{"default": 1},
			Logger:      queue.NewLogger(slog.Default()),
		},
	)

	registry := queue.NewHandlersRegistry()

	analysisWorker := workers.NewAnalysisWorker(pipeline, backends.Store, backends.Status)
	registry.Register(queue.TypeAnalysisRun, asynq.HandlerFunc(analysisWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", concurrency, "stt", sttProvider.Name())
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
