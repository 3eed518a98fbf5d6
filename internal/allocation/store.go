package allocation

import "context"

// Store persists asset allocations keyed by asset name.
type Store interface {
	// Upsert creates or replaces the allocation for an asset.
	Upsert(ctx context.Context, alloc Allocation) (Allocation, error)
	// Delete removes an asset's allocation. Deleting an absent asset is a
	// no-op.
	Delete(ctx context.Context, asset string) error
	// List returns every allocation.
	List(ctx context.Context) ([]Allocation, error)
	// SumExcluding totals allocated amounts across every asset except the
	// named one.
	SumExcluding(ctx context.Context, asset string) (float64, error)
}
