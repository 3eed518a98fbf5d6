// Package audit records who did what to the fund. Events are emitted from
// domain services and drained into a store by the publisher; they are plain
// rows, not a tamper-proof log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names a fund mutation worth keeping a record of.
type Action string

const (
	ActionFundsInjected      Action = "funds_injected"
	ActionFundsAdjusted      Action = "funds_adjusted"
	ActionRequestCreated     Action = "request_created"
	ActionRequestAdjudicated Action = "request_adjudicated"
	ActionAllocationChanged  Action = "allocation_changed"
	ActionAllocationCleared  Action = "allocation_cleared"
	ActionWindowIssued       Action = "window_issued"
	ActionPayoutClaimed      Action = "payout_claimed"
	ActionNoticePosted       Action = "notice_posted"
	ActionNoticeDeleted      Action = "notice_deleted"
)

// Event is emitted from domain logic to capture a fund mutation. Keep it
// transport-agnostic so stores can fan out without knowing about HTTP.
type Event struct {
	ID         uuid.UUID
	OccurredAt time.Time
	// Actor is the principal that performed the action ("gp" or "lp").
	Actor   string
	Action  Action
	Subject string
	Detail  string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
