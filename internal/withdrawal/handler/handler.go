package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/platform/middleware"
	"fundbook/internal/withdrawal"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// myRequestsLimit bounds the beneficiary's own request listing.
const myRequestsLimit = 10

// multipartOverhead leaves room for the non-file form fields when capping
// the alpha upload body.
const multipartOverhead = 1 << 20

// Service defines the interface for request creation and adjudication.
type Service interface {
	LimitStatus(ctx context.Context) (withdrawal.LimitStatus, error)
	CreateWithdrawal(ctx context.Context, amount float64, reason string) (withdrawal.Request, error)
	CreateAlpha(ctx context.Context, reason, proofRef string) (withdrawal.Request, error)
	Adjudicate(ctx context.Context, id int64, action string, finalAmount float64, rejectReason string) (withdrawal.Request, error)
	Pending(ctx context.Context) ([]withdrawal.Request, error)
	Recent(ctx context.Context, limit int) ([]withdrawal.Request, error)
}

// ProofStore persists the uploaded alpha evidence file.
type ProofStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Handler exposes the request workflow on both sides: beneficiary
// submission and GP adjudication.
type Handler struct {
	service        Service
	proofs         ProofStore
	logger         *slog.Logger
	validator      middleware.SessionValidator
	verifier       middleware.GPVerifier
	maxUploadBytes int64
}

func New(
	service Service,
	proofs ProofStore,
	logger *slog.Logger,
	validator middleware.SessionValidator,
	verifier middleware.GPVerifier,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		service:        service,
		proofs:         proofs,
		logger:         logger,
		validator:      validator,
		verifier:       verifier,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register mounts the request endpoints: reads stay open, beneficiary
// mutations sit behind the session gate, adjudication behind the GP gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/lp/limit_status", h.handleLimitStatus)
	r.Get("/lp/my_requests", h.handleMyRequests)

	r.Group(func(lp chi.Router) {
		lp.Use(middleware.RequireSession(h.validator, h.logger))
		lp.Post("/lp/request_withdrawal", h.handleRequestWithdrawal)
		lp.Post("/lp/request_alpha", h.handleRequestAlpha)
	})

	r.Group(func(gp chi.Router) {
		gp.Use(middleware.RequireGP(h.verifier, h.logger))
		gp.Get("/gp/pending_requests", h.handlePendingRequests)
		gp.Post("/gp/process_request/{id}", h.handleProcessRequest)
	})
}

func (h *Handler) handleLimitStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.service.LimitStatus(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "limit status failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to compute limit status"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := h.service.Recent(ctx, myRequestsLimit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list requests failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list requests"))
		return
	}
	if requests == nil {
		requests = []withdrawal.Request{}
	}

	httputil.WriteJSON(w, http.StatusOK, requests)
}

type withdrawalRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (h *Handler) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[withdrawalRequest](w, r, h.logger)
	if !ok {
		return
	}

	created, err := h.service.CreateWithdrawal(ctx, req.Amount, req.Reason)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeLimitExceeded) || dErrors.Is(err, dErrors.CodeInvalidAmount) {
			h.logger.WarnContext(ctx, "withdrawal request rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "withdrawal request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create request"))
		return
	}

	httputil.WriteSuccess(w, fmt.Sprintf("request %d submitted for review", created.ID))
}

func (h *Handler) handleRequestAlpha(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid alpha upload",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body or file too large"))
		return
	}

	reason := r.FormValue("reason")
	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.WarnContext(ctx, "alpha upload missing file",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "proof file is required"))
		return
	}
	defer file.Close()

	proofRef, err := h.proofs.Save(ctx, header.Filename, file)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "proof save failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to store proof file"))
		return
	}

	created, err := h.service.CreateAlpha(ctx, reason, proofRef)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "alpha request failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create request"))
		return
	}

	httputil.WriteSuccess(w, fmt.Sprintf("alpha proof uploaded, request %d submitted", created.ID))
}

func (h *Handler) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := h.service.Pending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pending requests failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list pending requests"))
		return
	}
	if requests == nil {
		requests = []withdrawal.Request{}
	}

	httputil.WriteJSON(w, http.StatusOK, requests)
}

type processRequest struct {
	Action       string  `json:"action"`
	FinalAmount  float64 `json:"final_amount"`
	RejectReason string  `json:"reject_reason"`
}

func (h *Handler) handleProcessRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[processRequest](w, r, h.logger)
	if !ok {
		return
	}

	adjudicated, err := h.service.Adjudicate(ctx, id, req.Action, req.FinalAmount, req.RejectReason)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) ||
			dErrors.Is(err, dErrors.CodeBadRequest) ||
			dErrors.Is(err, dErrors.CodeInvalidAmount) {
			h.logger.WarnContext(ctx, "adjudication rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "adjudication failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to process request"))
		return
	}

	httputil.WriteSuccess(w, fmt.Sprintf("request %d adjudicated: %s", adjudicated.ID, req.Action))
}
