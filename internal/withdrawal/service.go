package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
	UsedInMonth(ctx context.Context, kind ledger.Kind, day time.Time) (float64, error)
	Post(ctx context.Context, kind ledger.Kind, amount float64, description string) (ledger.Transaction, error)
}

// Service owns the request workflow: monthly limit arithmetic, request
// creation and administrator adjudication.
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
		return nil, fmt.Errorf("request store is required")
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

// LimitStatus reports the monthly cap, the amount already consumed this
// month (settled withdrawals plus pending withdrawal requests), and what
// remains.
func (s *Service) LimitStatus(ctx context.Context) (LimitStatus, error) {
	now := requestcontext.Now(ctx)
	limit := MonthlyLimit(now)
	used, err := s.usedThisMonth(ctx, now)
	if err != nil {
		return LimitStatus{}, err
	}
	return LimitStatus{
		MonthlyLimit: limit,
		UsedAmount:   used,
		Remaining:    round2(limit - used),
	}, nil
}

// CreateWithdrawal files a withdrawal request. The amount counts against the
// monthly cap immediately; the check and the insert share one transactional
// boundary so concurrent requests cannot both slip under the cap.
func (s *Service) CreateWithdrawal(ctx context.Context, amount float64, reason string) (Request, error) {
	if amount <= 0 {
		return Request{}, dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}

	var created Request
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		now := requestcontext.Now(ctx)
		limit := MonthlyLimit(now)
		used, err := s.usedThisMonth(ctx, now)
		if err != nil {
			return err
		}
		if used+amount > limit {
			return dErrors.New(dErrors.CodeLimitExceeded,
				fmt.Sprintf("monthly limit exceeded: %.2f used of %.2f", used, limit))
		}

		created, err = s.store.Create(ctx, Request{
			ReqDate: now,
			Kind:    KindWithdrawalReq,
			Amount:  amount,
			Reason:  reason,
			Status:  StatusPending,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create withdrawal request")
		}
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	s.recordCreated(ctx, created)
	return created, nil
}

// CreateAlpha files an earnings-evidence request. The amount starts at zero;
// the administrator sets the real figure at approval.
func (s *Service) CreateAlpha(ctx context.Context, reason, proofRef string) (Request, error) {
	created, err := s.store.Create(ctx, Request{
		ReqDate:  requestcontext.Now(ctx),
		Kind:     KindAlphaReq,
		Amount:   0,
		Reason:   reason,
		ProofRef: proofRef,
		Status:   StatusPending,
	})
	if err != nil {
		return Request{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create alpha request")
	}

	s.recordCreated(ctx, created)
	return created, nil
}

// Adjudicate applies the administrator's decision to a pending request.
// APPROVE settles it into the ledger (withdrawal requests post WITHDRAWAL,
// alpha requests post ALPHA at finalAmount); REJECT zeroes the amount and
// annotates the reason. A request is adjudicated exactly once.
func (s *Service) Adjudicate(ctx context.Context, id int64, action string, finalAmount float64, rejectReason string) (Request, error) {
	if action != ActionApprove && action != ActionReject {
		return Request{}, dErrors.New(dErrors.CodeBadRequest, "action must be APPROVE or REJECT")
	}
	if finalAmount < 0 {
		return Request{}, dErrors.New(dErrors.CodeInvalidAmount, "final amount cannot be negative")
	}

	var adjudicated Request
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		req, err := s.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
		}
		if req.Status != StatusPending {
			return dErrors.New(dErrors.CodeBadRequest, "request already adjudicated")
		}

		switch action {
		case ActionReject:
			req.Status = StatusRejected
			req.Amount = 0
			if rejectReason != "" {
				req.Reason += " [gp rejected: " + rejectReason + "]"
			}
			if err := s.store.Update(ctx, req); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update request")
			}

		case ActionApprove:
			req.Status = StatusApproved
			settled := req.Amount
			kind := ledger.KindWithdrawal
			if req.Kind == KindAlphaReq {
				settled = finalAmount
				req.Amount = finalAmount
				kind = ledger.KindAlpha
			}
			if err := s.store.Update(ctx, req); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update request")
			}
			if _, err := s.ledger.Post(ctx, kind, settled, "approved: "+req.Reason); err != nil {
				return err
			}
		}

		adjudicated = req
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRequestsAdjudicated(action)
	}
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionRequestAdjudicated,
		Subject: fmt.Sprintf("request/%d", adjudicated.ID),
		Detail:  fmt.Sprintf("%s %s %.2f", action, adjudicated.Kind, adjudicated.Amount),
	})
	s.logger.InfoContext(ctx, "request adjudicated",
		"id", adjudicated.ID,
		"action", action,
		"kind", adjudicated.Kind,
		"request_id", requestcontext.RequestID(ctx),
	)
	return adjudicated, nil
}

// Pending lists all requests awaiting adjudication.
func (s *Service) Pending(ctx context.Context) ([]Request, error) {
	reqs, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requests")
	}
	return reqs, nil
}

// Recent lists the newest requests for the beneficiary's own view.
func (s *Service) Recent(ctx context.Context, limit int) ([]Request, error) {
	reqs, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recent requests")
	}
	return reqs, nil
}

func (s *Service) usedThisMonth(ctx context.Context, now time.Time) (float64, error) {
	settled, err := s.ledger.UsedInMonth(ctx, ledger.KindWithdrawal, now)
	if err != nil {
		return 0, err
	}
	pending, err := s.store.SumPendingWithdrawalsInMonth(ctx, now.Year(), now.Month())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum pending withdrawals")
	}
	return settled + pending, nil
}

func (s *Service) recordCreated(ctx context.Context, req Request) {
	if s.metrics != nil {
		s.metrics.IncrementRequestsCreated(string(req.Kind))
	}
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionRequestCreated,
		Subject: fmt.Sprintf("request/%d", req.ID),
		Detail:  fmt.Sprintf("%s %.2f", req.Kind, req.Amount),
	})
	s.logger.InfoContext(ctx, "request created",
		"id", req.ID,
		"kind", req.Kind,
		"amount", req.Amount,
		"request_id", requestcontext.RequestID(ctx),
	)
}
