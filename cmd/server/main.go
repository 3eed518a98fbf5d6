// Command server wires storage, services and the HTTP surface together and
// runs the fund book API. Business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundbook/internal/allocation"
	allocationhandler "fundbook/internal/allocation/handler"
	"fundbook/internal/auth"
	authhandler "fundbook/internal/auth/handler"
	"fundbook/internal/board"
	boardhandler "fundbook/internal/board/handler"
	"fundbook/internal/dashboard"
	dashboardhandler "fundbook/internal/dashboard/handler"
	"fundbook/internal/ledger"
	ledgerhandler "fundbook/internal/ledger/handler"
	"fundbook/internal/payout"
	payouthandler "fundbook/internal/payout/handler"
	"fundbook/internal/platform/config"
	"fundbook/internal/platform/httpserver"
	"fundbook/internal/platform/logger"
	"fundbook/internal/platform/metrics"
	"fundbook/internal/platform/postgres"
	"fundbook/internal/platform/redis"
	httptransport "fundbook/internal/transport/http"
	"fundbook/internal/uploads"
	"fundbook/internal/withdrawal"
	withdrawalhandler "fundbook/internal/withdrawal/handler"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/platform/tx"
)

// Development fallback credentials, hashed at startup when no hashes are
// configured. Never rely on these outside local runs.
const (
	devGPPassword = "gp123"
	devLPPIN      = "0103"
)

const (
	auditBufferSize = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

type stores struct {
	ledger     ledger.Store
	withdrawal withdrawal.Store
	payout     payout.Store
	allocation allocation.Store
	board      board.Store
	audit      audit.Store
	runner     tx.Runner
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	if cfg.GPPasswordHash == "" {
		hash, err := auth.HashSecret(devGPPassword)
		if err != nil {
			return fmt.Errorf("hash development GP password: %w", err)
		}
		cfg.GPPasswordHash = hash
		log.Warn("GP_PASSWORD_HASH not set, using development password")
	}
	if cfg.LPPINHash == "" {
		hash, err := auth.HashSecret(devLPPIN)
		if err != nil {
			return fmt.Errorf("hash development PIN: %w", err)
		}
		cfg.LPPINHash = hash
		log.Warn("LP_PIN_HASH not set, using development PIN")
	}

	var (
		st stores
		db *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		st = stores{
			ledger:     ledger.NewPostgresStore(db),
			withdrawal: withdrawal.NewPostgresStore(db),
			payout:     payout.NewPostgresStore(db),
			allocation: allocation.NewPostgresStore(db),
			board:      board.NewPostgresStore(db),
			audit:      audit.NewPostgresStore(db),
			runner:     tx.NewSQLRunner(db),
		}
		log.Info("using postgres storage")
	} else {
		st = stores{
			ledger:     ledger.NewInMemoryStore(),
			withdrawal: withdrawal.NewInMemoryStore(),
			payout:     payout.NewInMemoryStore(),
			allocation: allocation.NewInMemoryStore(),
			board:      board.NewInMemoryStore(),
			audit:      audit.NewInMemoryStore(),
			runner:     tx.NewSerialRunner(),
		}
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var lockoutStore auth.LockoutStore
	if redisClient != nil {
		defer redisClient.Close()
		lockoutStore = auth.NewRedisLockoutStore(redisClient.Client)
		log.Info("using redis-backed PIN lockout")
	} else {
		lockoutStore = auth.NewInMemoryLockoutStore()
	}

	m := metrics.New()

	auditPublisher := audit.NewPublisher(st.audit,
		audit.WithAsyncBuffer(auditBufferSize),
		audit.WithLogger(log),
	)
	defer auditPublisher.Close()

	ledgerSvc, err := ledger.New(st.ledger,
		ledger.WithLogger(log),
		ledger.WithMetrics(m),
		ledger.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("build ledger service: %w", err)
	}

	withdrawalSvc, err := withdrawal.New(st.withdrawal, ledgerSvc, st.runner,
		withdrawal.WithLogger(log),
		withdrawal.WithMetrics(m),
		withdrawal.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("build withdrawal service: %w", err)
	}

	payoutSvc, err := payout.New(st.payout, ledgerSvc, st.runner,
		payout.WithLogger(log),
		payout.WithMetrics(m),
		payout.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("build payout service: %w", err)
	}

	allocationSvc, err := allocation.New(st.allocation, ledgerSvc, st.runner,
		allocation.WithLogger(log),
		allocation.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("build allocation service: %w", err)
	}

	boardSvc, err := board.New(st.board,
		board.WithLogger(log),
		board.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("build board service: %w", err)
	}

	dashboardSvc, err := dashboard.New(ledgerSvc, allocationSvc, payoutSvc)
	if err != nil {
		return fmt.Errorf("build dashboard service: %w", err)
	}

	tokenSvc := auth.NewTokenService(cfg.JWTSigningKey, cfg.SessionTTL)
	authSvc, err := auth.New(tokenSvc, lockoutStore, auth.Config{
		GPUsername:     cfg.GPUsername,
		GPPasswordHash: cfg.GPPasswordHash,
		LPPINHash:      cfg.LPPINHash,
		MaxAttempts:    cfg.PINMaxAttempts,
		LockoutWindow:  cfg.PINLockoutWindow,
	}, auth.WithLogger(log), auth.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}

	proofStore, err := uploads.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("prepare upload storage: %w", err)
	}

	sessionValidator := auth.NewTokenServiceAdapter(tokenSvc)

	router := httptransport.NewRouter(
		httptransport.Config{
			Logger:    log,
			Metrics:   m,
			UploadDir: proofStore.Dir(),
		},
		authhandler.New(authSvc, log),
		dashboardhandler.New(dashboardSvc, log),
		ledgerhandler.New(ledgerSvc, log, authSvc),
		withdrawalhandler.New(withdrawalSvc, proofStore, log, sessionValidator, authSvc, cfg.MaxUploadBytes),
		payouthandler.New(payoutSvc, log, sessionValidator, authSvc),
		allocationhandler.New(allocationSvc, log, authSvc),
		boardhandler.New(boardSvc, log, sessionValidator, authSvc),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("fundbook listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
