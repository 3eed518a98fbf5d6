package ledger

import (
	"context"
	"time"
)

// Store persists the append-only transaction ledger.
type Store interface {
	// Append inserts one transaction and returns it with its assigned ID.
	Append(ctx context.Context, tx Transaction) (Transaction, error)
	// ListAscending returns every transaction ordered by (TxDate, ID)
	// ascending, the valuation order.
	ListAscending(ctx context.Context) ([]Transaction, error)
	// ListRecent returns up to limit transactions, newest first by
	// (TxDate, ID) descending.
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
	// SumKindInMonth totals amounts of one kind dated inside the given
	// calendar month.
	SumKindInMonth(ctx context.Context, kind Kind, year int, month time.Month) (float64, error)
}
