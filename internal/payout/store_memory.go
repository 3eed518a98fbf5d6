package payout

import (
	"context"
	"sync"

	"fundbook/pkg/platform/sentinel"
)

// InMemoryStore keeps claim-window events in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Insert(_ context.Context, event Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID
	s.nextID++
	s.events = append(s.events, event)
	return event, nil
}

func (s *InMemoryStore) Latest(_ context.Context) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return Event{}, sentinel.ErrNotFound
	}
	return s.events[len(s.events)-1], nil
}

func (s *InMemoryStore) Update(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == event.ID {
			s.events[i] = event
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) ExpireActive(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var flipped int
	for i := range s.events {
		if s.events[i].Status == StatusActive {
			s.events[i].Status = StatusExpired
			flipped++
		}
	}
	return flipped, nil
}
