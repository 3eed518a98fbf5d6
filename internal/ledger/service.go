package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/requestcontext"

	"fundbook/internal/platform/metrics"
)

// Service owns the transaction ledger: administrator fund movements, the
// postings other workflows generate, and valuation reads.
type Service struct {
	store          Store
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher *audit.Publisher
	valuationOpts  []ValuationOption
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

// WithValuationOptions fixes the valuation policy for every NAV this service
// computes, e.g. a different drawdown pool.
func WithValuationOptions(opts ...ValuationOption) Option {
	return func(s *Service) {
		s.valuationOpts = opts
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}

	svc := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ComputeNAV values the fund as of the given date. A zero asOf means "today".
func (s *Service) ComputeNAV(ctx context.Context, asOf time.Time) (Valuation, error) {
	if asOf.IsZero() {
		asOf = requestcontext.Now(ctx)
	}
	start := time.Now()

	txs, err := s.store.ListAscending(ctx)
	if err != nil {
		return Valuation{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger")
	}
	v := Valuate(txs, asOf, s.valuationOpts...)

	if s.metrics != nil {
		s.metrics.ObserveValuation(start)
	}
	return v, nil
}

// Inject records an administrator capital contribution. Only the inflow
// kinds PRINCIPAL and ALPHA are accepted here; adjustments and drawdowns go
// through their own workflows.
func (s *Service) Inject(ctx context.Context, kind Kind, amount float64, description string) (Transaction, error) {
	if kind != KindPrincipal && kind != KindAlpha {
		return Transaction{}, dErrors.New(dErrors.CodeBadRequest, "kind must be PRINCIPAL or ALPHA")
	}
	if amount <= 0 {
		return Transaction{}, dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}

	recorded, err := s.post(ctx, kind, amount, description)
	if err != nil {
		return Transaction{}, err
	}

	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionFundsInjected,
		Subject: fmt.Sprintf("transaction/%d", recorded.ID),
		Detail:  fmt.Sprintf("%s %.2f", kind, amount),
	})
	return recorded, nil
}

// Adjust records a manual correction. Direction is "UP" or "DOWN".
func (s *Service) Adjust(ctx context.Context, direction string, amount float64, description string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, dErrors.New(dErrors.CodeInvalidAmount, "adjustment amount must be positive")
	}

	var kind Kind
	switch direction {
	case "UP":
		kind = KindAdjustUp
	case "DOWN":
		kind = KindAdjustDown
	default:
		return Transaction{}, dErrors.New(dErrors.CodeBadRequest, "direction must be UP or DOWN")
	}

	recorded, err := s.post(ctx, kind, amount, "manual override: "+description)
	if err != nil {
		return Transaction{}, err
	}

	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionFundsAdjusted,
		Subject: fmt.Sprintf("transaction/%d", recorded.ID),
		Detail:  fmt.Sprintf("%s %.2f", kind, amount),
	})
	return recorded, nil
}

// Post appends a ledger row on behalf of another workflow (payout claims,
// approved requests). Callers are trusted to pass a valid kind.
func (s *Service) Post(ctx context.Context, kind Kind, amount float64, description string) (Transaction, error) {
	if !kind.IsValid() {
		return Transaction{}, dErrors.New(dErrors.CodeBadRequest, "unknown transaction kind")
	}
	return s.post(ctx, kind, amount, description)
}

// Recent returns the newest transactions for display, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	txs, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recent transactions")
	}
	return txs, nil
}

// UsedInMonth totals one kind inside the calendar month containing day.
func (s *Service) UsedInMonth(ctx context.Context, kind Kind, day time.Time) (float64, error) {
	sum, err := s.store.SumKindInMonth(ctx, kind, day.Year(), day.Month())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum ledger month usage")
	}
	return sum, nil
}

func (s *Service) post(ctx context.Context, kind Kind, amount float64, description string) (Transaction, error) {
	now := requestcontext.Now(ctx)
	recorded, err := s.store.Append(ctx, Transaction{
		TxDate:      DateOnly(now),
		Kind:        kind,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return Transaction{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append transaction")
	}

	if s.metrics != nil {
		s.metrics.IncrementTransactionsRecorded(string(kind))
	}
	s.logger.InfoContext(ctx, "transaction recorded",
		"id", recorded.ID,
		"kind", kind,
		"amount", amount,
		"request_id", requestcontext.RequestID(ctx),
	)
	return recorded, nil
}
