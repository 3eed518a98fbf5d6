package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundbook/internal/board"
	"fundbook/internal/platform/middleware"
	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/httputil"
	"fundbook/pkg/requestcontext"
)

// Service defines the interface for the notice board and message thread.
type Service interface {
	PostNotice(ctx context.Context, content string) (board.Notice, error)
	DeleteNotice(ctx context.Context, id int64) error
	RecentNotices(ctx context.Context) ([]board.NoticeView, error)
	PostMessage(ctx context.Context, content string) (board.Message, error)
	Reply(ctx context.Context, id int64, reply string) error
	RecentMessages(ctx context.Context) ([]board.MessageView, error)
}

// Handler exposes the board endpoints.
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

// Register mounts board reads openly, posting behind the session gate, and
// notice administration plus replies behind the GP gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/lp/notices", h.handleListNotices)
	r.Get("/messages", h.handleListMessages)

	r.Group(func(lp chi.Router) {
		lp.Use(middleware.RequireSession(h.validator, h.logger))
		lp.Post("/lp/messages", h.handlePostMessage)
	})

	r.Group(func(gp chi.Router) {
		gp.Use(middleware.RequireGP(h.verifier, h.logger))
		gp.Post("/gp/notices", h.handlePostNotice)
		gp.Delete("/gp/notices/{id}", h.handleDeleteNotice)
		gp.Post("/gp/messages/{id}/reply", h.handleReply)
	})
}

func (h *Handler) handleListNotices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notices, err := h.service.RecentNotices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list notices failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list notices"))
		return
	}
	if notices == nil {
		notices = []board.NoticeView{}
	}

	httputil.WriteJSON(w, http.StatusOK, notices)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	msgs, err := h.service.RecentMessages(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list messages failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list messages"))
		return
	}
	if msgs == nil {
		msgs = []board.MessageView{}
	}

	httputil.WriteJSON(w, http.StatusOK, msgs)
}

type contentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[contentRequest](w, r, h.logger)
	if !ok {
		return
	}

	if _, err := h.service.PostMessage(ctx, req.Content); err != nil {
		h.writeServiceError(w, r, "post message", err)
		return
	}

	httputil.WriteSuccess(w, "message submitted")
}

func (h *Handler) handlePostNotice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[contentRequest](w, r, h.logger)
	if !ok {
		return
	}

	if _, err := h.service.PostNotice(ctx, req.Content); err != nil {
		h.writeServiceError(w, r, "post notice", err)
		return
	}

	httputil.WriteSuccess(w, "notice published")
}

func (h *Handler) handleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid notice id"))
		return
	}

	if err := h.service.DeleteNotice(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete notice", err)
		return
	}

	httputil.WriteSuccess(w, "notice deleted")
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid message id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[replyRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Reply(r.Context(), id, req.Reply); err != nil {
		h.writeServiceError(w, r, "reply to message", err)
		return
	}

	httputil.WriteSuccess(w, "reply saved")
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeBadRequest) || dErrors.Is(err, dErrors.CodeNotFound) {
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
