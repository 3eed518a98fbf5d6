package allocation

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore keeps allocations in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	allocs map[string]Allocation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, allocs: make(map[string]Allocation)}
}

func (s *InMemoryStore) Upsert(_ context.Context, alloc Allocation) (Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.allocs[alloc.Asset]; ok {
		alloc.ID = existing.ID
	} else {
		alloc.ID = s.nextID
		s.nextID++
	}
	s.allocs[alloc.Asset] = alloc
	return alloc, nil
}

func (s *InMemoryStore) Delete(_ context.Context, asset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allocs, asset)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Allocation, 0, len(s.allocs))
	for _, alloc := range s.allocs {
		out = append(out, alloc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) SumExcluding(_ context.Context, asset string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for name, alloc := range s.allocs {
		if name != asset {
			sum += alloc.Amount
		}
	}
	return sum, nil
}
