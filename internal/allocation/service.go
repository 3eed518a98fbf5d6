package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/platform/tx"
	"fundbook/pkg/requestcontext"

	"fundbook/internal/ledger"
)

// Ledger supplies the portfolio valuation that caps total allocation.
type Ledger interface {
	ComputeNAV(ctx context.Context, asOf time.Time) (ledger.Valuation, error)
}

// Service applies allocation changes while keeping the book un-leveraged:
// the sum of all allocations never exceeds current total value.
// Stores are pure I/O; the anti-leverage rule lives here.
type Service struct {
	store          Store
	ledger         Ledger
	runner         tx.Runner
	logger         *slog.Logger
	auditPublisher *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

func New(store Store, ledgerSvc Ledger, runner tx.Runner, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("allocation store is required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	s := &Service{
		store:  store,
		ledger: ledgerSvc,
		runner: runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Set creates or replaces the allocation for asset. An amount of zero or
// less clears the allocation instead; clearing an absent asset succeeds.
func (s *Service) Set(ctx context.Context, asset string, amount float64) error {
	if asset == "" {
		return dErrors.New(dErrors.CodeBadRequest, "asset name is required")
	}

	if amount <= 0 {
		if err := s.store.Delete(ctx, asset); err != nil {
			return fmt.Errorf("clear allocation: %w", err)
		}
		s.logger.InfoContext(ctx, "allocation cleared", slog.String("asset", asset))
		audit.Emit(ctx, s.auditPublisher, audit.Event{
			Actor:   requestcontext.Role(ctx),
			Action:  audit.ActionAllocationCleared,
			Subject: asset,
		})
		return nil
	}

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		nav, err := s.ledger.ComputeNAV(ctx, time.Time{})
		if err != nil {
			return fmt.Errorf("compute valuation: %w", err)
		}
		otherSum, err := s.store.SumExcluding(ctx, asset)
		if err != nil {
			return fmt.Errorf("sum other allocations: %w", err)
		}
		if otherSum+amount > nav.RTotal {
			return dErrors.New(dErrors.CodeOverAllocated,
				fmt.Sprintf("allocation exceeds total value: %.2f requested with %.2f already allocated against %.2f available", amount, otherSum, nav.RTotal))
		}
		if _, err := s.store.Upsert(ctx, Allocation{Asset: asset, Amount: amount}); err != nil {
			return fmt.Errorf("upsert allocation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "allocation set",
		slog.String("asset", asset),
		slog.Float64("amount", amount))
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionAllocationChanged,
		Subject: asset,
		Detail:  fmt.Sprintf("amount=%.2f", amount),
	})
	return nil
}

// List returns all allocations in insertion order.
func (s *Service) List(ctx context.Context) ([]Allocation, error) {
	allocs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocs, nil
}
