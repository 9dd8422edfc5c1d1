package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/cache"
)

// ValueCache is the part of cache.Cache the store uses.
type ValueCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedStore reads through a cache in front of another Store. Cache
// failures are logged and never fail the call.
type CachedStore struct {
	next  Store
	cache ValueCache
	ttl   time.Duration
}

func NewCachedStore(next Store, c ValueCache, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: c, ttl: ttl}
}

func (s *CachedStore) Save(ctx context.Context, id string, r *Report) error {
	if err := s.next.Save(ctx, id, r); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, id, r, s.ttl); err != nil {
		slog.Warn("report cache set failed", "id", id, "error", err)
	}
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (*Report, error) {
	var r Report
	err := s.cache.Get(ctx, id, &r)
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("report cache get failed", "id", id, "error", err)
	}

	got, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, id, got, s.ttl); err != nil {
		slog.Warn("report cache set failed", "id", id, "error", err)
	}
	return got, nil
}
