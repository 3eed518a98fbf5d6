package ledger

import (
	"math"
	"time"
)

// HurdleRate is the annual compounding rate applied to surviving inflows.
const HurdleRate = 0.015

const daysPerYear = 365.0

type valuationConfig struct {
	hurdleRate    float64
	drawdownKinds map[Kind]bool
}

// ValuationOption customizes the valuation policy.
type ValuationOption func(*valuationConfig)

// WithHurdleRate overrides the annual hurdle rate.
func WithHurdleRate(rate float64) ValuationOption {
	return func(c *valuationConfig) {
		c.hurdleRate = rate
	}
}

// WithDrawdownKinds overrides which transaction kinds join the consumption
// pool. The default pool is {WITHDRAWAL, QUARTERLY_PAYOUT, ADJUST_DOWN}.
func WithDrawdownKinds(kinds ...Kind) ValuationOption {
	return func(c *valuationConfig) {
		c.drawdownKinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			c.drawdownKinds[k] = true
		}
	}
}

func defaultValuationConfig() valuationConfig {
	return valuationConfig{
		hurdleRate: HurdleRate,
		drawdownKinds: map[Kind]bool{
			KindWithdrawal:      true,
			KindQuarterlyPayout: true,
			KindAdjustDown:      true,
		},
	}
}

// Valuate computes the fund value as of the given date.
//
// Drawdowns are matched against inflows first-in-first-out: the full
// drawdown pool (regardless of date) is consumed starting from the oldest
// inflow, reducing each inflow to its surviving "effective" amount. Each
// surviving amount then earns compound interest at the hurdle rate for the
// days it has been held. Future-dated inflows are ignored entirely; they
// neither absorb drawdowns nor earn interest until their date arrives.
//
// txs must be sorted ascending by (TxDate, ID); this is the order the store
// returns. The function never mutates its input.
func Valuate(txs []Transaction, asOf time.Time, opts ...ValuationOption) Valuation {
	cfg := defaultValuationConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	asOf = DateOnly(asOf)

	var pool []float64
	for _, tx := range txs {
		if cfg.drawdownKinds[tx.Kind] {
			pool = append(pool, tx.Amount)
		}
	}

	var totalPrincipal, totalAlpha, totalInterest float64
	for _, tx := range txs {
		if !tx.Kind.IsInflow() {
			continue
		}
		daysHeld := daysBetween(DateOnly(tx.TxDate), asOf)
		if daysHeld < 0 {
			continue
		}

		effective := tx.Amount
		for len(pool) > 0 && effective > 0 {
			if effective >= pool[0] {
				effective -= pool[0]
				pool = pool[1:]
			} else {
				pool[0] -= effective
				effective = 0
			}
		}

		totalInterest += effective * (math.Pow(1+cfg.hurdleRate, float64(daysHeld)/daysPerYear) - 1)
		if tx.Kind == KindAlpha {
			totalAlpha += effective
		} else {
			totalPrincipal += effective
		}
	}

	return Valuation{
		RTotal:                round(totalPrincipal+totalAlpha+totalInterest, 4),
		EffectivePrincipal:    round(totalPrincipal, 2),
		TotalAlpha:            round(totalAlpha, 2),
		TotalCompoundInterest: round(totalInterest, 4),
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
