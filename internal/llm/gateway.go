package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	maxRetries       int

	recorder UsageRecorder

	mu     sync.Mutex
	compat map[string]Provider // keyed by base URL
}

// UsageRecorder receives one record per successful call.
type UsageRecorder interface {
	Record(ctx context.Context, rec UsageRecord) error
}

type Option func(*gateway)

func WithUsageRecorder(r UsageRecorder) Option {
	return func(g *gateway) { g.recorder = r }
}

func NewGateway(cfg config.LLMConfig, opts ...Option) Gateway {
	g := newGateway(cfg.DefaultProvider, cfg.FallbackProvider, cfg.MaxRetries)
	for _, opt := range opts {
		opt(g)
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicBaseURL)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

// NewGatewayWithProviders builds a gateway over an explicit provider set.
func NewGatewayWithProviders(defaultProvider string, providers ...Provider) Gateway {
	g := newGateway(defaultProvider, "", 0)
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func newGateway(defaultProvider, fallbackProvider string, maxRetries int) *gateway {
	return &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  defaultProvider,
		fallbackProvider: fallbackProvider,
		maxRetries:       max(maxRetries, 0),
		compat:           make(map[string]Provider),
	}
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.BaseURL != "" {
		p := g.compatProvider(req.BaseURL)
		return g.callWithRetry(ctx, p, req)
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	resp, err := g.chatWithRetry(ctx, providerName, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != providerName {
		slog.Warn("primary provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.chatWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

// compatProvider returns the cached client for baseURL, creating it on first use.
func (g *gateway) compatProvider(baseURL string) Provider {
	key := strings.TrimRight(baseURL, "/")

	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.compat[key]; ok {
		return p
	}
	p := NewCompatProvider(key)
	g.compat[key] = p
	return p
}

func (g *gateway) chatWithRetry(ctx context.Context, providerName string, req ChatRequest) (*ChatResponse, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}
	return g.callWithRetry(ctx, p, req)
}

func (g *gateway) callWithRetry(ctx context.Context, p Provider, req ChatRequest) (*ChatResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying LLM call", "provider", p.Name(), "attempt", attempt)
		}

		resp, err := p.ChatCompletion(ctx, req)
		if err == nil {
			g.record(ctx, resp)
			return resp, nil
		}
		lastErr = err
	}
	if g.maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", p.Name(), lastErr)
}

func (g *gateway) record(ctx context.Context, resp *ChatResponse) {
	u := resp.Usage()
	if g.recorder == nil {
		slog.Debug("llm call", "provider", u.Provider, "model", u.Model, "tokens", u.TotalTokens, "latency_ms", u.LatencyMs)
		return
	}
	if err := g.recorder.Record(ctx, u); err != nil {
		slog.Warn("failed to record llm usage", "provider", u.Provider, "error", err)
	}
}

func (g *gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, p := range g.providers {
		for _, m := range p.Models() {
			models = append(models, ModelInfo{Provider: p.Name(), Model: m})
		}
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Provider != models[j].Provider {
			return models[i].Provider < models[j].Provider
		}
		return models[i].Model < models[j].Model
	})
	return models
}
