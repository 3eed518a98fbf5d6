package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/platform/middleware"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for allocation changes.
type Service interface {
	Set(ctx context.Context, asset string, amount float64) error
}

// Handler exposes the GP allocation endpoint.
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

// Register mounts the allocation endpoint behind the GP gate.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(gp chi.Router) {
		gp.Use(middleware.RequireGP(h.verifier, h.logger))
		gp.Post("/gp/asset_allocation", h.handleSetAllocation)
	})
}

type allocationRequest struct {
	AssetName string  `json:"asset_name"`
	Amount    float64 `json:"amount"`
}

func (h *Handler) handleSetAllocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[allocationRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Set(ctx, req.AssetName, req.Amount); err != nil {
		if dErrors.Is(err, dErrors.CodeOverAllocated) || dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "allocation rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "allocation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to update allocation"))
		return
	}

	if req.Amount <= 0 {
		httputil.WriteSuccess(w, fmt.Sprintf("allocation cleared: %s", req.AssetName))
		return
	}
	httputil.WriteSuccess(w, fmt.Sprintf("allocation updated: %s -> %.2f", req.AssetName, req.Amount))
}
