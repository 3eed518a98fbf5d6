package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundbook/internal/payout"
	"fundbook/internal/platform/middleware"
	dErrors "fundbook/pkg/domain-errors"
)

type stubService struct {
	issueErr error
	claimErr error
	issued   bool
	claimed  bool
}

func (s *stubService) Issue(context.Context) (payout.Event, error) {
	s.issued = true
	return payout.Event{ID: 1, Status: payout.StatusActive}, s.issueErr
}

func (s *stubService) Claim(context.Context) error {
	s.claimed = true
	return s.claimErr
}

type acceptAllValidator struct{}

func (acceptAllValidator) ValidateToken(string) (*middleware.SessionClaims, error) {
	return &middleware.SessionClaims{Role: middleware.RoleLP, SessionID: "test-session"}, nil
}

type allowAllVerifier struct{}

func (allowAllVerifier) VerifyGP(username, password string) error { return nil }

func newTestRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	logger := slog.New(slog.DiscardHandler)
	New(svc, logger, acceptAllValidator{}, allowAllVerifier{}).Register(r)
	return r
}

func Test_HandleToggle(t *testing.T) {
	t.Run("requires administrator credentials", func(t *testing.T) {
		svc := &stubService{}
		req := httptest.NewRequest(http.MethodPost, "/gp/toggle_quarterly", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, svc.issued)
	})

	t.Run("issues the window", func(t *testing.T) {
		svc := &stubService{}
		req := httptest.NewRequest(http.MethodPost, "/gp/toggle_quarterly", nil)
		req.SetBasicAuth("gp", "pw")
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, svc.issued)
		assert.Contains(t, rec.Body.String(), "72 hour countdown started")
	})
}

func Test_HandleClaim(t *testing.T) {
	t.Run("requires a session token", func(t *testing.T) {
		svc := &stubService{}
		req := httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, svc.claimed)
	})

	t.Run("claims the payout", func(t *testing.T) {
		svc := &stubService{}
		rec := claimAs(t, svc)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "quarterly payout claimed")
	})

	t.Run("no active window is forbidden", func(t *testing.T) {
		svc := &stubService{claimErr: dErrors.New(dErrors.CodeNoActiveWindow, "no claimable window")}
		rec := claimAs(t, svc)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"NO_ACTIVE_WINDOW"`)
	})

	t.Run("expired window is forbidden", func(t *testing.T) {
		svc := &stubService{claimErr: dErrors.New(dErrors.CodeWindowExpired, "window expired 72 hours after issue")}
		rec := claimAs(t, svc)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"WINDOW_EXPIRED"`)
	})

	t.Run("unexpected failure is masked as internal", func(t *testing.T) {
		svc := &stubService{claimErr: context.DeadlineExceeded}
		rec := claimAs(t, svc)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal error")
	})
}

func claimAs(t *testing.T, svc Service) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil)
	req.Header.Set("Authorization", "Bearer any-token")
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)
	return rec
}
