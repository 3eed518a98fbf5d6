// Package httputil holds the response and decode helpers shared by all
// HTTP handlers. Every error leaves the API as the same envelope:
//
//	{"error": "<CODE>", "message": "<human text>"}
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/requestcontext"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the error envelope. Plain errors and coded
// internal errors surface as INTERNAL with a generic message so internals
// never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := dErrors.MessageOf(err)
	if code == dErrors.CodeInternal {
		message = "internal error"
	}
	WriteJSON(w, dErrors.HTTPStatus(code), errorResponse{
		Error:   string(code),
		Message: message,
	})
}

// WriteSuccess writes the standard mutation acknowledgement envelope.
func WriteSuccess(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, statusResponse{Status: "success", Message: message})
}

// DecodeAndPrepare decodes the JSON request body into T. On failure it logs
// the problem, writes a BAD_REQUEST envelope, and reports false so the
// handler can return immediately.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := r.Context()
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}
