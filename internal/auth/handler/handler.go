package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for beneficiary verification.
type Service interface {
	VerifyPIN(ctx context.Context, pin string) (string, error)
}

// Handler exchanges the beneficiary PIN for a session token.
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

// Register mounts the verification endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/lp/verify", h.handleVerify)
}

type verifyRequest struct {
	PIN string `json:"pin"`
}

type verifyResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[verifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, err := h.service.VerifyPIN(ctx, req.PIN)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) || dErrors.Is(err, dErrors.CodeLockedOut) {
			h.logger.WarnContext(ctx, "pin verification rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "pin verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "verification failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, verifyResponse{Token: token})
}
