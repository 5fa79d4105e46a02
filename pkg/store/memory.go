package store

import (
	"context"
	"slices"
	"sync"

	pkgio "github.com/matzehuels/modgraph/pkg/io"
)

// MemoryStore keeps runs in a map. Stored reports are shared, not copied;
// callers must not modify a report after saving it.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*pkgio.Report
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*pkgio.Report)}
}

func (s *MemoryStore) Save(_ context.Context, r *pkgio.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.RunID] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, runID string) (*pkgio.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, Summarize(r))
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out[:min(len(out), listLimit(limit))], nil
}

func (s *MemoryStore) Delete(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders by creation time, breaking ties by run ID.
func sortNewestFirst(runs []Summary) {
	slices.SortFunc(runs, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.RunID < b.RunID {
			return -1
		}
		if a.RunID > b.RunID {
			return 1
		}
		return 0
	})
}

var _ Store = (*MemoryStore)(nil)
