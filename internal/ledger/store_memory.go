package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore keeps the ledger in process memory. Used in tests and when
// no database is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	txs    []Transaction
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, tx Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	tx.TxDate = DateOnly(tx.TxDate)
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *InMemoryStore) ListAscending(_ context.Context) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Transaction{}, s.txs...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TxDate.Equal(out[j].TxDate) {
			return out[i].TxDate.Before(out[j].TxDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	asc, err := s.ListAscending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Transaction, 0, limit)
	for i := len(asc) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, asc[i])
	}
	return out, nil
}

func (s *InMemoryStore) SumKindInMonth(_ context.Context, kind Kind, year int, month time.Month) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, tx := range s.txs {
		if tx.Kind == kind && tx.TxDate.Year() == year && tx.TxDate.Month() == month {
			sum += tx.Amount
		}
	}
	return sum, nil
}
