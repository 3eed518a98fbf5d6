package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day returns midnight UTC n days after 2026-01-01.
func day(n int) time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// hurdleOn is the raw (unrounded) compound interest earned by amount held for
// the given number of days at the default hurdle rate.
func hurdleOn(amount float64, days int) float64 {
	return amount * (math.Pow(1+HurdleRate, float64(days)/365) - 1)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func TestValuate(t *testing.T) {
	tests := []struct {
		name     string
		txs      []Transaction
		asOf     time.Time
		opts     []ValuationOption
		expected Valuation
	}{
		{
			name:     "empty ledger values to zero",
			txs:      nil,
			asOf:     day(0),
			expected: Valuation{},
		},
		{
			name: "single principal accrues one year of interest",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
			},
			asOf: day(365),
			expected: Valuation{
				RTotal:                101.5,
				EffectivePrincipal:    100,
				TotalCompoundInterest: 1.5,
			},
		},
		{
			name: "same-day inflow earns no interest",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(0), Kind: KindAlpha, Amount: 50},
			},
			asOf: day(0),
			expected: Valuation{
				RTotal:             150,
				EffectivePrincipal: 100,
				TotalAlpha:         50,
			},
		},
		{
			name: "withdrawal consumes oldest inflow first",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 50},
				{ID: 2, TxDate: day(5), Kind: KindWithdrawal, Amount: 60},
				{ID: 3, TxDate: day(10), Kind: KindPrincipal, Amount: 50},
			},
			asOf: day(20),
			expected: Valuation{
				RTotal:                round4(40 + hurdleOn(40, 10)),
				EffectivePrincipal:    40,
				TotalCompoundInterest: round4(hurdleOn(40, 10)),
			},
		},
		{
			name: "future-dated inflow neither earns nor absorbs",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(5), Kind: KindWithdrawal, Amount: 100},
				{ID: 3, TxDate: day(30), Kind: KindPrincipal, Amount: 999},
			},
			asOf:     day(10),
			expected: Valuation{},
		},
		{
			name: "drawdowns beyond inflows floor at zero",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 50},
				{ID: 2, TxDate: day(1), Kind: KindWithdrawal, Amount: 80},
			},
			asOf:     day(10),
			expected: Valuation{},
		},
		{
			name: "quarterly payout joins the drawdown pool",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(0), Kind: KindQuarterlyPayout, Amount: 25},
			},
			asOf: day(0),
			expected: Valuation{
				RTotal:             75,
				EffectivePrincipal: 75,
			},
		},
		{
			name: "adjust down joins the drawdown pool by default",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(0), Kind: KindAdjustDown, Amount: 30},
			},
			asOf: day(0),
			expected: Valuation{
				RTotal:             70,
				EffectivePrincipal: 70,
			},
		},
		{
			name: "adjust up earns interest as principal",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindAdjustUp, Amount: 100},
			},
			asOf: day(0),
			expected: Valuation{
				RTotal:             100,
				EffectivePrincipal: 100,
			},
		},
		{
			name: "alpha is consumed after older principal",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(0), Kind: KindAlpha, Amount: 50},
				{ID: 3, TxDate: day(1), Kind: KindWithdrawal, Amount: 120},
			},
			asOf: day(1),
			expected: Valuation{
				RTotal:                round4(30 + hurdleOn(30, 1)),
				TotalAlpha:            30,
				TotalCompoundInterest: round4(hurdleOn(30, 1)),
			},
		},
		{
			name: "configured pool can exclude adjust down",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
				{ID: 2, TxDate: day(0), Kind: KindAdjustDown, Amount: 30},
			},
			asOf: day(0),
			opts: []ValuationOption{WithDrawdownKinds(KindWithdrawal, KindQuarterlyPayout)},
			expected: Valuation{
				RTotal:             100,
				EffectivePrincipal: 100,
			},
		},
		{
			name: "configured hurdle rate changes the accrual",
			txs: []Transaction{
				{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 100},
			},
			asOf: day(365),
			opts: []ValuationOption{WithHurdleRate(0.10)},
			expected: Valuation{
				RTotal:                110,
				EffectivePrincipal:    100,
				TotalCompoundInterest: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Valuate(tt.txs, tt.asOf, tt.opts...)
			assert.InDelta(t, tt.expected.RTotal, got.RTotal, 1e-9, "r_total")
			assert.InDelta(t, tt.expected.EffectivePrincipal, got.EffectivePrincipal, 1e-9, "effective_principal")
			assert.InDelta(t, tt.expected.TotalAlpha, got.TotalAlpha, 1e-9, "total_alpha")
			assert.InDelta(t, tt.expected.TotalCompoundInterest, got.TotalCompoundInterest, 1e-9, "total_compound_interest")
		})
	}
}

func TestValuateDoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 50},
		{ID: 2, TxDate: day(5), Kind: KindWithdrawal, Amount: 60},
		{ID: 3, TxDate: day(10), Kind: KindPrincipal, Amount: 50},
	}

	_ = Valuate(txs, day(20))

	require.Equal(t, 50.0, txs[0].Amount)
	require.Equal(t, 60.0, txs[1].Amount)
	require.Equal(t, 50.0, txs[2].Amount)
}

func TestValuateMonotonicInAsOf(t *testing.T) {
	txs := []Transaction{
		{ID: 1, TxDate: day(0), Kind: KindPrincipal, Amount: 80},
		{ID: 2, TxDate: day(3), Kind: KindAlpha, Amount: 20},
		{ID: 3, TxDate: day(7), Kind: KindWithdrawal, Amount: 30},
	}

	prev := Valuate(txs, day(7)).RTotal
	for d := 8; d <= 400; d += 7 {
		cur := Valuate(txs, day(d)).RTotal
		require.GreaterOrEqual(t, cur, prev, "valuation shrank between day %d and day %d", d-7, d)
		prev = cur
	}
}
