// Package app wires configuration into the services shared by the API
// server, the queue worker and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/emcoach/internal/analysis"
	"github.com/nikhilbhutani/emcoach/internal/cache"
	"github.com/nikhilbhutani/emcoach/internal/coaching"
	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/database"
	"github.com/nikhilbhutani/emcoach/internal/llm"
	"github.com/nikhilbhutani/emcoach/internal/report"
	"github.com/nikhilbhutani/emcoach/internal/stt"
	"github.com/nikhilbhutani/emcoach/internal/usage"
)

const (
	reportCachePrefix = "emcoach:report:"
	jobCachePrefix    = "emcoach:job:"
)

// DefaultBaseURL is the endpoint recorded in reports when a request does
// not name one.
func DefaultBaseURL(cfg config.LLMConfig) string {
	switch cfg.DefaultProvider {
	case "openai":
		if cfg.OpenAIBaseURL != "" {
			return cfg.OpenAIBaseURL
		}
		return "https://api.openai.com/v1"
	case "anthropic":
		if cfg.AnthropicBaseURL != "" {
			return cfg.AnthropicBaseURL
		}
		return "https://api.anthropic.com"
	default:
		return cfg.OllamaURL
	}
}

// NewPipeline builds the analysis pipeline. The returned provider owns the
// transcription client and must be closed by the caller. rec may be nil.
func NewPipeline(cfg *config.Config, rec llm.UsageRecorder) (*analysis.Pipeline, stt.Provider, error) {
	sttProvider, err := stt.New(cfg.STT)
	if err != nil {
		return nil, nil, fmt.Errorf("init transcription: %w", err)
	}

	var opts []llm.Option
	if rec != nil {
		opts = append(opts, llm.WithUsageRecorder(rec))
	}
	coach := coaching.New(llm.NewGateway(cfg.LLM, opts...))
	p := analysis.New(sttProvider, coach, analysis.Options{
		DefaultModel:   cfg.LLM.DefaultModel,
		DefaultBaseURL: DefaultBaseURL(cfg.LLM),
	})
	return p, sttProvider, nil
}

// Backends are the optional stateful services. Nil fields were unavailable.
type Backends struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
	Cache *cache.Cache

	Store  report.Store
	Status analysis.StatusStore
}

// OpenBackends connects to Postgres and Redis when configured and picks
// the report store: Postgres if reachable, otherwise files under
// REPORTS_DIR, fronted by Redis when it answers.
func OpenBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Warn("database unavailable, storing reports on disk", "error", err)
	} else {
		b.DB = db
		if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
			slog.Warn("migrations failed", "error", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache or queue", "error", err)
		_ = rdb.Close()
	} else {
		b.Redis = rdb
		b.Cache = cache.NewCache(rdb, reportCachePrefix)
	}

	var store report.Store
	if b.DB != nil {
		store = report.NewPostgresStore(b.DB)
	} else {
		fs, err := report.NewFileStore(cfg.Reports.Dir)
		if err != nil {
			b.Close()
			return nil, err
		}
		store = fs
	}

	if b.Redis != nil {
		b.Store = report.NewCachedStore(store, b.Cache, cfg.Reports.CacheTTL)
		b.Status = analysis.NewCacheStatusStore(cache.NewCache(b.Redis, jobCachePrefix), cfg.Reports.CacheTTL)
	} else {
		b.Store = store
		b.Status = analysis.NewMemoryStatusStore()
	}
	return b, nil
}

// UsageRecorder stores LLM usage in Postgres when it is available and
// logs it otherwise.
func (b *Backends) UsageRecorder() llm.UsageRecorder {
	if b.DB != nil {
		return usage.NewPostgresRecorder(b.DB)
	}
	return usage.LogRecorder{}
}

func (b *Backends) Close() {
	if b.DB != nil {
		b.DB.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}
