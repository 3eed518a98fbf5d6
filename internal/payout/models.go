package payout

import "time"

// EventStatus tracks one claim window. ACTIVE windows expire lazily 72 hours
// after issue; a claim inside the window settles it as CLAIMED.
type EventStatus string

const (
	StatusActive  EventStatus = "ACTIVE"
	StatusExpired EventStatus = "EXPIRED"
	StatusClaimed EventStatus = "CLAIMED"
)

// StatusInactive is the synthetic status reported when no window was ever
// issued. It never appears on a stored event.
const StatusInactive = "INACTIVE"

// Window and grace lengths, and the fixed payout amount.
const (
	WindowDuration = 72 * time.Hour
	GraceDuration  = 72 * time.Hour
	PayoutAmount   = 30.0
)

// Event is one issued claim window.
type Event struct {
	ID        int64
	IssuedAt  time.Time
	Status    EventStatus
	ClaimedAt *time.Time
}

// Info is the read model the dashboard shows. Timestamps are formatted
// strings because the view renders them verbatim.
type Info struct {
	Status      string  `json:"status"`
	HoursLeft   float64 `json:"hours_left"`
	ShowExpired bool    `json:"show_expired"`
	IssuedAt    string  `json:"issued_at,omitempty"`
	ClaimedAt   *string `json:"claimed_at,omitempty"`
}

const infoTimeFormat = "2006-01-02 15:04"
