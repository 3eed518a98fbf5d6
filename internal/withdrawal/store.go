package withdrawal

import (
	"context"
	"time"
)

// Store persists beneficiary requests.
type Store interface {
	// Create inserts a request and returns it with its assigned ID.
	Create(ctx context.Context, req Request) (Request, error)
	// Get returns one request, or sentinel.ErrNotFound.
	Get(ctx context.Context, id int64) (Request, error)
	// Update rewrites the mutable fields (status, amount, reason) of an
	// existing request, or returns sentinel.ErrNotFound.
	Update(ctx context.Context, req Request) error
	// ListPending returns all PENDING requests, oldest first.
	ListPending(ctx context.Context) ([]Request, error)
	// ListRecent returns up to limit requests, newest first by
	// (ReqDate, ID) descending.
	ListRecent(ctx context.Context, limit int) ([]Request, error)
	// SumPendingWithdrawalsInMonth totals PENDING withdrawal request
	// amounts dated inside the given calendar month.
	SumPendingWithdrawalsInMonth(ctx context.Context, year int, month time.Month) (float64, error)
}
