package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/ledger"
	"fundbook/internal/platform/middleware"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for fund movements the GP drives directly.
type Service interface {
	Inject(ctx context.Context, kind ledger.Kind, amount float64, description string) (ledger.Transaction, error)
	Adjust(ctx context.Context, direction string, amount float64, description string) (ledger.Transaction, error)
}

// Handler exposes the GP fund-control endpoints.
type Handler struct {
	service  Service
	logger   *slog.Logger
	verifier middleware.GPVerifier
}

func New(service Service, logger *slog.Logger, verifier middleware.GPVerifier) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		verifier: verifier,
	}
}

// Register mounts the fund-control endpoints behind the GP gate.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(gp chi.Router) {
		gp.Use(middleware.RequireGP(h.verifier, h.logger))
		gp.Post("/gp/inject_funds", h.handleInject)
		gp.Post("/gp/adjust_funds", h.handleAdjust)
	})
}

type injectRequest struct {
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (h *Handler) handleInject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[injectRequest](w, r, h.logger)
	if !ok {
		return
	}

	tx, err := h.service.Inject(ctx, ledger.Kind(req.Kind), req.Amount, req.Description)
	if err != nil {
		h.writeServiceError(w, r, "inject funds", err)
		return
	}

	httputil.WriteSuccess(w, fmt.Sprintf("injected %.2f into %s", tx.Amount, tx.Kind))
}

type adjustRequest struct {
	Direction   string  `json:"direction"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[adjustRequest](w, r, h.logger)
	if !ok {
		return
	}

	tx, err := h.service.Adjust(ctx, req.Direction, req.Amount, req.Description)
	if err != nil {
		h.writeServiceError(w, r, "adjust funds", err)
		return
	}

	httputil.WriteSuccess(w, fmt.Sprintf("adjustment executed: %s %.2f", req.Direction, tx.Amount))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeBadRequest) || dErrors.Is(err, dErrors.CodeInvalidAmount) {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to "+op))
}
