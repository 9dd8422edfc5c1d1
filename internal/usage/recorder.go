// Package usage persists per-call LLM token and cost records.
package usage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/emcoach/internal/llm"
)

// PostgresRecorder appends usage rows to llm_usage.
type PostgresRecorder struct {
	db *pgxpool.Pool
}

func NewPostgresRecorder(db *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, rec llm.UsageRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO llm_usage (provider, model, input_tokens, output_tokens, total_tokens, cost_usd, latency_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.Provider, rec.Model, rec.InputTokens, rec.OutputTokens, rec.TotalTokens, rec.CostUSD, rec.LatencyMs, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert llm usage: %w", err)
	}
	return nil
}

// LogRecorder writes usage to the default logger.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, rec llm.UsageRecord) error {
	slog.InfoContext(ctx, "llm usage",
		"provider", rec.Provider,
		"model", rec.Model,
		"input_tokens", rec.InputTokens,
		"output_tokens", rec.OutputTokens,
		"cost_usd", rec.CostUSD,
		"latency_ms", rec.LatencyMs,
	)
	return nil
}
