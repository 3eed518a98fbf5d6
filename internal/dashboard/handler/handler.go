package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/dashboard"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for the aggregate dashboard read.
type Service interface {
	View(ctx context.Context) (dashboard.View, error)
}

// Handler serves the landing view.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the dashboard endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.service.View(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to build dashboard"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}
