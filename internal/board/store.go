package board

import "context"

// Store persists notices and messages.
type Store interface {
	// InsertNotice adds a notice and returns it with its assigned ID.
	InsertNotice(ctx context.Context, n Notice) (Notice, error)
	// DeleteNotice removes a notice, or returns sentinel.ErrNotFound.
	DeleteNotice(ctx context.Context, id int64) error
	// RecentNotices returns up to limit notices, newest first.
	RecentNotices(ctx context.Context, limit int) ([]Notice, error)

	// InsertMessage adds a message and returns it with its assigned ID.
	InsertMessage(ctx context.Context, m Message) (Message, error)
	// SetReply attaches a reply to a message, or returns
	// sentinel.ErrNotFound. Replying again overwrites the previous reply.
	SetReply(ctx context.Context, id int64, reply string) error
	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, limit int) ([]Message, error)
}
