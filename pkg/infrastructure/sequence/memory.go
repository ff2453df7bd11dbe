// Package sequence provides SequenceStore backends for the part number
// allocator: an in-process store for single-node deployments and tests,
// and a Redis-backed store for deployments where several processes
// allocate from the same 700-series counters.
package sequence

import (
	"context"
	"sync"

	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// MemoryStore keeps one counter per category, guarded by a single mutex.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryStore creates an in-process sequence store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]int64)}
}

// Verify interface compliance
var _ repositories.SequenceStore = (*MemoryStore)(nil)

// Next returns the next number for a category, starting at 1
func (s *MemoryStore) Next(ctx context.Context, category string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[category]++
	return s.counters[category], nil
}

// Seed advances a category counter to at least the given value, for
// resuming after the counters were persisted elsewhere.
func (s *MemoryStore) Seed(category string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counters[category] < value {
		s.counters[category] = value
	}
}
