package withdrawal

import "time"

// RequestKind labels what the beneficiary is asking for.
type RequestKind string

const (
	// KindWithdrawalReq asks to take money out; it counts against the
	// monthly limit from the moment it is filed.
	KindWithdrawalReq RequestKind = "WITHDRAWAL_REQ"
	// KindAlphaReq submits earnings evidence; the amount is set by the
	// administrator at approval time.
	KindAlphaReq RequestKind = "ALPHA_REQ"
)

// Status tracks a request through adjudication. PENDING transitions exactly
// once, to APPROVED or REJECTED.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is one beneficiary request awaiting (or past) adjudication.
type Request struct {
	ID       int64       `json:"id"`
	ReqDate  time.Time   `json:"req_date"`
	Kind     RequestKind `json:"kind"`
	Amount   float64     `json:"amount"`
	Reason   string      `json:"reason"`
	ProofRef string      `json:"proof_ref,omitempty"`
	Status   Status      `json:"status"`
}

// LimitStatus reports the beneficiary's standing against the monthly cap.
type LimitStatus struct {
	MonthlyLimit float64 `json:"monthly_limit"`
	UsedAmount   float64 `json:"used_amount"`
	Remaining    float64 `json:"remaining"`
}

// Adjudication actions accepted by the administrator endpoint.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)
