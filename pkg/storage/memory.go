package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps runs in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	if err := validate(run); err != nil {
		return err
	}
	cp := *run
	s.mu.Lock()
	s.runs[run.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (s *MemoryStore) ListByGraph(_ context.Context, graphHash string) ([]*Run, error) {
	s.mu.RLock()
	var out []*Run
	for _, run := range s.runs {
		if run.GraphHash == graphHash {
			cp := *run
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()
	sortRuns(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// sortRuns orders runs by creation time, then id.
func sortRuns(runs []*Run) {
	slices.SortFunc(runs, func(a, b *Run) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

var _ Store = (*MemoryStore)(nil)
