package payout

import "context"

// Store persists claim-window events.
type Store interface {
	// Insert adds a new event and returns it with its assigned ID.
	Insert(ctx context.Context, event Event) (Event, error)
	// Latest returns the most recently issued event, or sentinel.ErrNotFound
	// when none was ever issued.
	Latest(ctx context.Context) (Event, error)
	// Update rewrites the status and claim time of an existing event.
	Update(ctx context.Context, event Event) error
	// ExpireActive marks every ACTIVE event EXPIRED and reports how many
	// were flipped.
	ExpireActive(ctx context.Context) (int, error)
}
