package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/platform/tx"
	"fundbook/pkg/requestcontext"

	"fundbook/internal/ledger"
	"fundbook/internal/platform/metrics"
)

// Ledger is the slice of the ledger service this package consumes.
type Ledger interface {
	Post(ctx context.Context, kind ledger.Kind, amount float64, description string) (ledger.Transaction, error)
}

// Service owns the quarterly claim window: the administrator issues one, the
// beneficiary has 72 hours to claim the fixed payout, and expiry is committed
// lazily whenever the window is read or claimed past its deadline.
type Service struct {
	store          Store
	ledger         Ledger
	runner         tx.Runner
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(store Store, ledgerSvc Ledger, runner tx.Runner, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("payout store is required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}

	svc := &Service{
		store:  store,
		ledger: ledgerSvc,
		runner: runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Issue opens a fresh claim window. Any window still ACTIVE is expired
// first, so at most one window is ever claimable.
func (s *Service) Issue(ctx context.Context) (Event, error) {
	var issued Event
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.ExpireActive(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire previous windows")
		}
		var err error
		issued, err = s.store.Insert(ctx, Event{
			IssuedAt: requestcontext.Now(ctx),
			Status:   StatusActive,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue claim window")
		}
		return nil
	})
	if err != nil {
		return Event{}, err
	}

	if s.metrics != nil {
		s.metrics.WindowsIssued.Inc()
	}
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionWindowIssued,
		Subject: fmt.Sprintf("window/%d", issued.ID),
	})
	s.logger.InfoContext(ctx, "claim window issued",
		"id", issued.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return issued, nil
}

// Claim settles the active window and posts the fixed payout to the ledger.
// Claiming past the deadline commits the expiry and reports it; claiming with
// no active window is rejected.
func (s *Service) Claim(ctx context.Context) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		event, err := s.store.Latest(ctx)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNoActiveWindow, "no claimable window")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim window")
		}
		if event.Status != StatusActive {
			return dErrors.New(dErrors.CodeNoActiveWindow, "no claimable window")
		}

		now := requestcontext.Now(ctx)
		if now.After(event.IssuedAt.Add(WindowDuration)) {
			event.Status = StatusExpired
			if err := s.store.Update(ctx, event); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire claim window")
			}
			return dErrors.New(dErrors.CodeWindowExpired, "window expired 72 hours after issue")
		}

		event.Status = StatusClaimed
		event.ClaimedAt = &now
		if err := s.store.Update(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle claim window")
		}
		if _, err := s.ledger.Post(ctx, ledger.KindQuarterlyPayout, PayoutAmount, "quarterly liquidity payout"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.PayoutsClaimed.Inc()
	}
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:  requestcontext.Role(ctx),
		Action: audit.ActionPayoutClaimed,
		Detail: fmt.Sprintf("%.2f", PayoutAmount),
	})
	s.logger.InfoContext(ctx, "quarterly payout claimed",
		"amount", PayoutAmount,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Info reports the state of the latest window. Reading an ACTIVE window past
// its deadline commits the expiry before reporting. An expired window stays
// visible for a 72 hour grace period, then disappears from view.
func (s *Service) Info(ctx context.Context) (Info, error) {
	event, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Info{Status: StatusInactive}, nil
		}
		return Info{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim window")
	}

	now := requestcontext.Now(ctx)
	deadline := event.IssuedAt.Add(WindowDuration)

	if event.Status == StatusActive && now.After(deadline) {
		event.Status = StatusExpired
		if err := s.store.Update(ctx, event); err != nil {
			return Info{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire claim window")
		}
	}

	info := Info{
		Status:   string(event.Status),
		IssuedAt: event.IssuedAt.Format(infoTimeFormat),
	}
	switch event.Status {
	case StatusActive:
		secondsLeft := deadline.Sub(now).Seconds()
		info.HoursLeft = round1(math.Max(0, secondsLeft) / 3600)
	case StatusExpired:
		info.ShowExpired = !now.After(deadline.Add(GraceDuration))
	}
	if event.ClaimedAt != nil {
		claimed := event.ClaimedAt.Format(infoTimeFormat)
		info.ClaimedAt = &claimed
	}
	return info, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
