package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/payout"
	"fundbook/internal/platform/middleware"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for the quarterly claim window.
type Service interface {
	Issue(ctx context.Context) (payout.Event, error)
	Claim(ctx context.Context) error
}

// Handler exposes the claim-window endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.SessionValidator
	verifier  middleware.GPVerifier
}

func New(service Service, logger *slog.Logger, validator middleware.SessionValidator, verifier middleware.GPVerifier) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator,
		verifier:  verifier,
	}
}

// Register mounts the claim endpoint behind the session gate and the issue
// endpoint behind the GP gate.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(lp chi.Router) {
		lp.Use(middleware.RequireSession(h.validator, h.logger))
		lp.Post("/lp/claim_quarterly", h.handleClaim)
	})

	r.Group(func(gp chi.Router) {
		gp.Use(middleware.RequireGP(h.verifier, h.logger))
		gp.Post("/gp/toggle_quarterly", h.handleToggle)
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Claim(ctx); err != nil {
		if dErrors.Is(err, dErrors.CodeNoActiveWindow) || dErrors.Is(err, dErrors.CodeWindowExpired) {
			h.logger.WarnContext(ctx, "claim rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "claim failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to claim payout"))
		return
	}

	httputil.WriteSuccess(w, "quarterly payout claimed")
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.service.Issue(ctx); err != nil {
		h.logger.ErrorContext(ctx, "issue claim window failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to issue claim window"))
		return
	}

	httputil.WriteSuccess(w, "claim window issued, 72 hour countdown started")
}
