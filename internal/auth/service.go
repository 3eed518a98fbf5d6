package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"fundbook/internal/platform/metrics"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/requestcontext"
)

// Config carries the credential material and lockout policy.
type Config struct {
	GPUsername     string
	GPPasswordHash string
	LPPINHash      string
	MaxAttempts    int
	LockoutWindow  time.Duration
}

// Service verifies both principals: the GP over HTTP Basic and the
// beneficiary over a PIN exchanged for a session token. Failed PIN attempts
// are throttled per client IP.
type Service struct {
	tokens  *TokenService
	lockout LockoutStore
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(tokens *TokenService, lockout LockoutStore, cfg Config, opts ...Option) (*Service, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if lockout == nil {
		return nil, fmt.Errorf("lockout store is required")
	}
	if cfg.GPUsername == "" || cfg.GPPasswordHash == "" || cfg.LPPINHash == "" {
		return nil, fmt.Errorf("credential configuration is incomplete")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive")
	}
	s := &Service{
		tokens:  tokens,
		lockout: lockout,
		cfg:     cfg,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// VerifyPIN exchanges the beneficiary PIN for a session token. After
// MaxAttempts failures from one client IP within the lockout window, further
// attempts are refused until the window elapses.
func (s *Service) VerifyPIN(ctx context.Context, pin string) (string, error) {
	identifier := requestcontext.ClientIP(ctx)
	if identifier == "" {
		identifier = "unknown"
	}

	failures, err := s.lockout.Failures(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("read lockout state: %w", err)
	}
	if failures >= s.cfg.MaxAttempts {
		s.logger.WarnContext(ctx, "pin verification refused, locked out",
			slog.String("identifier", identifier))
		return "", dErrors.New(dErrors.CodeLockedOut, "too many failed attempts, try again later")
	}

	if err := VerifySecret(pin, s.cfg.LPPINHash); err != nil {
		if !dErrors.Is(err, dErrors.CodeUnauthorized) {
			return "", err
		}
		count, recErr := s.lockout.RecordFailure(ctx, identifier, s.cfg.LockoutWindow)
		if recErr != nil {
			return "", fmt.Errorf("record failed attempt: %w", recErr)
		}
		if s.metrics != nil {
			s.metrics.PINFailures.Inc()
		}
		s.logger.WarnContext(ctx, "pin verification failed",
			slog.String("identifier", identifier),
			slog.Int("failures", count))
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid PIN")
	}

	if err := s.lockout.Clear(ctx, identifier); err != nil {
		return "", fmt.Errorf("clear lockout state: %w", err)
	}

	token, err := s.tokens.Issue(requestcontext.Now(ctx))
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	s.logger.InfoContext(ctx, "beneficiary session issued")
	return token, nil
}

// VerifyGP checks administrator Basic credentials. The password hash is
// always verified, even on a username mismatch, so a match on one field is
// not observable through timing.
func (s *Service) VerifyGP(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.GPUsername)) == 1

	if err := VerifySecret(password, s.cfg.GPPasswordHash); err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return err
	}
	if !usernameOK {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}
