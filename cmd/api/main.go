package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/api"
	"github.com/nikhilbhutani/emcoach/internal/api/handlers"
	"github.com/nikhilbhutani/emcoach/internal/app"
	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/queue"
	"github.com/nikhilbhutani/emcoach/internal/questions"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := app.OpenBackends(ctx, cfg)
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

	deps := api.Deps{
		Pipeline: pipeline,
		Store:    backends.Store,
		Status:   backends.Status,
		Bank:     questions.Load(cfg.Questions.Path),
		Checks:   map[string]handlers.Pinger{},
	}
	if backends.DB != nil {
		deps.Checks["database"] = backends.DB
	}
	if backends.Redis != nil {
		deps.Checks["redis"] = backends.Cache

		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()
		deps.Queue = qc
	}

	handler := api.NewRouter(cfg, deps).Setup(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Minute, // synchronous analyses wait on STT and the LLM
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"stt", sttProvider.Name(),
			"llm_provider", cfg.LLM.DefaultProvider,
			"llm_model", cfg.LLM.DefaultModel,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
