package ledger

import "time"

// Kind labels a ledger transaction. Inflow kinds grow the fund; drawdown
// kinds consume it. The two manual adjustment kinds are reserved for
// administrator corrections.
type Kind string

const (
	KindPrincipal       Kind = "PRINCIPAL"
	KindAlpha           Kind = "ALPHA"
	KindWithdrawal      Kind = "WITHDRAWAL"
	KindQuarterlyPayout Kind = "QUARTERLY_PAYOUT"
	KindAdjustUp        Kind = "ADJUST_UP"
	KindAdjustDown      Kind = "ADJUST_DOWN"
)

// IsInflow reports whether the kind contributes capital to the fund.
func (k Kind) IsInflow() bool {
	switch k {
	case KindPrincipal, KindAlpha, KindAdjustUp:
		return true
	}
	return false
}

// IsDrawdown reports whether the kind consumes capital from the fund.
func (k Kind) IsDrawdown() bool {
	switch k {
	case KindWithdrawal, KindQuarterlyPayout, KindAdjustDown:
		return true
	}
	return false
}

// IsValid reports whether the kind is one of the six ledger kinds.
func (k Kind) IsValid() bool {
	return k.IsInflow() || k.IsDrawdown()
}

// Transaction is one immutable ledger row. Rows are never updated or
// deleted; corrections happen through ADJUST_UP / ADJUST_DOWN entries.
// The valuation order is (TxDate, ID) ascending.
type Transaction struct {
	ID          int64     `json:"id"`
	TxDate      time.Time `json:"tx_date"`
	Kind        Kind      `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

// Valuation is the point-in-time value of the fund. Field names follow the
// external reporting format.
type Valuation struct {
	RTotal                float64 `json:"r_total"`
	EffectivePrincipal    float64 `json:"effective_principal"`
	TotalAlpha            float64 `json:"total_alpha"`
	TotalCompoundInterest float64 `json:"total_compound_interest"`
}

// DateOnly normalizes t to midnight UTC. Ledger dates carry day precision;
// normalizing keeps day arithmetic exact.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
