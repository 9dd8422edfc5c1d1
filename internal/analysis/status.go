package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/cache"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

var ErrUnknownJob = errors.New("unknown analysis job")

// JobState is the progress of a queued analysis.
type JobState struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Stage     Stage     `json:"stage,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Failed builds the state for a run that ended with err.
func Failed(id string, err error) JobState {
	st := JobState{ID: id, Status: StatusFailed, Error: err.Error()}
	var se *StageError
	if errors.As(err, &se) {
		st.Stage = se.Stage
	}
	return st
}

type StatusStore interface {
	SetStatus(ctx context.Context, st JobState) error
	Status(ctx context.Context, id string) (*JobState, error)
}

type kvCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CacheStatusStore keeps job states in Redis so the API and worker share them.
type CacheStatusStore struct {
	cache kvCache
	ttl   time.Duration
}

func NewCacheStatusStore(c kvCache, ttl time.Duration) *CacheStatusStore {
	return &CacheStatusStore{cache: c, ttl: ttl}
}

func (s *CacheStatusStore) SetStatus(ctx context.Context, st JobState) error {
	st.UpdatedAt = time.Now().UTC()
	if err := s.cache.Set(ctx, st.ID, st, s.ttl); err != nil {
		return fmt.Errorf("set job status: %w", err)
	}
	return nil
}

func (s *CacheStatusStore) Status(ctx context.Context, id string) (*JobState, error) {
	var st JobState
	err := s.cache.Get(ctx, id, &st)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrUnknownJob
	}
	if err != nil {
		return nil, fmt.Errorf("get job status: %w", err)
	}
	return &st, nil
}

// MemoryStatusStore is a process-local StatusStore.
type MemoryStatusStore struct {
	mu   sync.RWMutex
	jobs map[string]JobState
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{jobs: make(map[string]JobState)}
}

func (s *MemoryStatusStore) SetStatus(_ context.Context, st JobState) error {
	st.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.jobs[st.ID] = st
	s.mu.Unlock()
	return nil
}

func (s *MemoryStatusStore) Status(_ context.Context, id string) (*JobState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return nil, ErrUnknownJob
	}
	return &st, nil
}
