package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("report not found")

type Store interface {
	Save(ctx context.Context, id string, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
}

// NewID returns a fresh report identifier.
func NewID() string {
	return uuid.NewString()
}

const indexFile = ".index.json"

// FileStore writes one report_YYYYMMDD_HHMMSS.json per report into a
// directory and keeps an id-to-file index beside them.
type FileStore struct {
	dir string

	mu    sync.Mutex
	index map[string]string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	fs := &FileStore{dir: dir, index: make(map[string]string)}
	if err := fs.loadIndex(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *FileStore) Dir() string { return s.dir }

// Save writes r and returns once both the report and the index are on disk.
// Two reports in the same second get the id appended to the second name.
func (s *FileStore) Save(_ context.Context, id string, r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.nameFor(id, r)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", name, err)
	}
	s.index[id] = name
	return s.writeIndex()
}

// Path returns the file a saved report lives in.
func (s *FileStore) Path(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.index[id]
	if !ok {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

func (s *FileStore) Get(_ context.Context, id string) (*Report, error) {
	s.mu.Lock()
	name, ok := s.index[id]
	if !ok {
		// another process (the worker) may have saved it
		if err := s.loadIndex(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		name, ok = s.index[id]
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", name, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", name, err)
	}
	return &r, nil
}

func (s *FileStore) nameFor(id string, r *Report) string {
	if name, ok := s.index[id]; ok {
		return name
	}
	name := r.Filename()
	if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
		short := strings.SplitN(id, "-", 2)[0]
		name = strings.TrimSuffix(name, ".json") + "_" + short + ".json"
	}
	return name
}

func (s *FileStore) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read report index: %w", err)
	}
	idx := make(map[string]string)
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("decode report index: %w", err)
	}
	for id, name := range idx {
		s.index[id] = name
	}
	return nil
}

func (s *FileStore) writeIndex() error {
	data, err := json.Marshal(s.index)
	if err != nil {
		return fmt.Errorf("marshal report index: %w", err)
	}
	tmp := filepath.Join(s.dir, indexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report index: %w", err)
	}
	return os.Rename(tmp, filepath.Join(s.dir, indexFile))
}
