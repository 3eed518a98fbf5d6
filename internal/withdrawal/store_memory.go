package withdrawal

import (
	"context"
	"sort"
	"sync"
	"time"

	"fundbook/pkg/platform/sentinel"
)

// InMemoryStore keeps requests in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	reqs   map[int64]Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, reqs: make(map[int64]Request)}
}

func (s *InMemoryStore) Create(_ context.Context, req Request) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextID
	s.nextID++
	req.ReqDate = dateOnly(req.ReqDate)
	s.reqs[req.ID] = req
	return req, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.reqs[id]
	if !ok {
		return Request{}, sentinel.ErrNotFound
	}
	return req, nil
}

func (s *InMemoryStore) Update(_ context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reqs[req.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.reqs[req.ID] = req
	return nil
}

func (s *InMemoryStore) ListPending(_ context.Context) ([]Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Request
	for _, req := range s.reqs {
		if req.Status == StatusPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]Request, 0, len(s.reqs))
	for _, req := range s.reqs {
		all = append(all, req)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ReqDate.Equal(all[j].ReqDate) {
			return all[i].ReqDate.After(all[j].ReqDate)
		}
		return all[i].ID > all[j].ID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemoryStore) SumPendingWithdrawalsInMonth(_ context.Context, year int, month time.Month) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, req := range s.reqs {
		if req.Kind == KindWithdrawalReq && req.Status == StatusPending &&
			req.ReqDate.Year() == year && req.ReqDate.Month() == month {
			sum += req.Amount
		}
	}
	return sum, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
