package board

import (
	"context"
	"sync"

	"fundbook/pkg/platform/sentinel"
)

// InMemoryStore keeps notices and messages in process memory.
type InMemoryStore struct {
	mu            sync.RWMutex
	nextNoticeID  int64
	nextMessageID int64
	notices       []Notice
	messages      []Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextNoticeID: 1, nextMessageID: 1}
}

func (s *InMemoryStore) InsertNotice(_ context.Context, n Notice) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextNoticeID
	s.nextNoticeID++
	s.notices = append(s.notices, n)
	return n, nil
}

func (s *InMemoryStore) DeleteNotice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notices {
		if s.notices[i].ID == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) RecentNotices(_ context.Context, limit int) ([]Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notice, 0, limit)
	for i := len(s.notices) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.notices[i])
	}
	return out, nil
}

func (s *InMemoryStore) InsertMessage(_ context.Context, m Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMessageID
	s.nextMessageID++
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *InMemoryStore) SetReply(_ context.Context, id int64, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Reply = &reply
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) RecentMessages(_ context.Context, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, limit)
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.messages[i])
	}
	return out, nil
}
