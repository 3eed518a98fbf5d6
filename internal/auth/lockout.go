package auth

import (
	"context"
	"sync"
	"time"

	"fundbook/pkg/requestcontext"
)

// LockoutStore counts failed PIN attempts per identifier inside a rolling
// window. Counters reset when the window elapses or on successful login.
type LockoutStore interface {
	// RecordFailure increments the counter for identifier, starting the
	// window on the first failure, and returns the new count.
	RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error)
	// Failures returns the current counter for identifier.
	Failures(ctx context.Context, identifier string) (int, error)
	// Clear resets the counter for identifier.
	Clear(ctx context.Context, identifier string) error
}

type lockoutEntry struct {
	count     int
	expiresAt time.Time
}

// InMemoryLockoutStore is the single-process fallback used when Redis is
// not configured.
type InMemoryLockoutStore struct {
	mu      sync.Mutex
	entries map[string]lockoutEntry
}

func NewInMemoryLockoutStore() *InMemoryLockoutStore {
	return &InMemoryLockoutStore{entries: make(map[string]lockoutEntry)}
}

func (s *InMemoryLockoutStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identifier]
	if !ok || now.After(entry.expiresAt) {
		entry = lockoutEntry{expiresAt: now.Add(window)}
	}
	entry.count++
	s.entries[identifier] = entry
	return entry.count, nil
}

func (s *InMemoryLockoutStore) Failures(ctx context.Context, identifier string) (int, error) {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identifier]
	if !ok {
		return 0, nil
	}
	if now.After(entry.expiresAt) {
		delete(s.entries, identifier)
		return 0, nil
	}
	return entry.count, nil
}

func (s *InMemoryLockoutStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identifier)
	return nil
}
