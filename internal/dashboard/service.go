// Package dashboard assembles the read model behind the landing view: the
// live valuation, recent ledger activity, allocations and the state of the
// quarterly claim window, fetched concurrently and failing as a unit.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fundbook/internal/allocation"
	"fundbook/internal/ledger"
	"fundbook/internal/payout"
)

// ledgerEntryLimit bounds the transaction list shown on the dashboard.
const ledgerEntryLimit = 20

type Ledger interface {
	ComputeNAV(ctx context.Context, asOf time.Time) (ledger.Valuation, error)
	Recent(ctx context.Context, limit int) ([]ledger.Transaction, error)
}

type Allocations interface {
	List(ctx context.Context) ([]allocation.Allocation, error)
}

type Payouts interface {
	Info(ctx context.Context) (payout.Info, error)
}

// View is the aggregate dashboard payload.
type View struct {
	NAV         ledger.Valuation        `json:"nav"`
	Ledger      []ledger.Transaction    `json:"ledger"`
	Allocations []allocation.Allocation `json:"allocations"`
	Quarterly   payout.Info             `json:"quarterly_info"`
}

type Service struct {
	ledger      Ledger
	allocations Allocations
	payouts     Payouts
}

func New(ledgerSvc Ledger, allocationSvc Allocations, payoutSvc Payouts) (*Service, error) {
	if ledgerSvc == nil || allocationSvc == nil || payoutSvc == nil {
		return nil, fmt.Errorf("all dashboard sources are required")
	}
	return &Service{
		ledger:      ledgerSvc,
		allocations: allocationSvc,
		payouts:     payoutSvc,
	}, nil
}

// View gathers the four dashboard sections concurrently. The first failure
// cancels the remaining fetches.
func (s *Service) View(ctx context.Context) (View, error) {
	g, ctx := errgroup.WithContext(ctx)

	var view View

	g.Go(func() error {
		nav, err := s.ledger.ComputeNAV(ctx, time.Time{})
		if err != nil {
			return fmt.Errorf("compute valuation: %w", err)
		}
		view.NAV = nav
		return nil
	})

	g.Go(func() error {
		txs, err := s.ledger.Recent(ctx, ledgerEntryLimit)
		if err != nil {
			return fmt.Errorf("list recent transactions: %w", err)
		}
		view.Ledger = txs
		return nil
	})

	g.Go(func() error {
		allocs, err := s.allocations.List(ctx)
		if err != nil {
			return fmt.Errorf("list allocations: %w", err)
		}
		view.Allocations = allocs
		return nil
	})

	g.Go(func() error {
		info, err := s.payouts.Info(ctx)
		if err != nil {
			return fmt.Errorf("claim window info: %w", err)
		}
		view.Quarterly = info
		return nil
	})

	if err := g.Wait(); err != nil {
		return View{}, err
	}

	if view.Ledger == nil {
		view.Ledger = []ledger.Transaction{}
	}
	if view.Allocations == nil {
		view.Allocations = []allocation.Allocation{}
	}
	return view, nil
}
