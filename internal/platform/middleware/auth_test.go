package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/requestcontext"
)

type stubValidator struct {
	claims *SessionClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*SessionClaims, error) {
	return s.claims, s.err
}

type stubVerifier struct {
	err error
}

func (s stubVerifier) VerifyGP(username, password string) error {
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func Test_RequireSession(t *testing.T) {
	t.Run("missing header is unauthorized", func(t *testing.T) {
		var reached bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })
		mw := RequireSession(stubValidator{}, discardLogger())

		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"UNAUTHORIZED"`)
		assert.False(t, reached)
	})

	t.Run("non-bearer scheme is unauthorized", func(t *testing.T) {
		mw := RequireSession(stubValidator{}, discardLogger())
		req := httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil)
		req.Header.Set("Authorization", "Basic abc")

		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token is unauthorized", func(t *testing.T) {
		validator := stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "token has expired")}
		mw := RequireSession(validator, discardLogger())
		req := httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil)
		req.Header.Set("Authorization", "Bearer stale-token")

		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	})

	t.Run("valid token stamps role and session on the context", func(t *testing.T) {
		validator := stubValidator{claims: &SessionClaims{Role: RoleLP, SessionID: "session-1"}}
		mw := RequireSession(validator, discardLogger())

		var gotRole, gotSession string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = requestcontext.Role(r.Context())
			gotSession = requestcontext.SessionID(r.Context())
		})

		req := httptest.NewRequest(http.MethodPost, "/lp/claim_quarterly", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, RoleLP, gotRole)
		assert.Equal(t, "session-1", gotSession)
	})
}

func Test_RequireGP(t *testing.T) {
	t.Run("missing credentials challenge with basic realm", func(t *testing.T) {
		mw := RequireGP(stubVerifier{}, discardLogger())

		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gp/inject_funds", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("rejected credentials are unauthorized", func(t *testing.T) {
		verifier := stubVerifier{err: dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")}
		mw := RequireGP(verifier, discardLogger())
		req := httptest.NewRequest(http.MethodPost, "/gp/inject_funds", nil)
		req.SetBasicAuth("gp", "wrong")

		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("accepted credentials stamp the administrator role", func(t *testing.T) {
		mw := RequireGP(stubVerifier{}, discardLogger())

		var gotRole string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = requestcontext.Role(r.Context())
		})

		req := httptest.NewRequest(http.MethodPost, "/gp/inject_funds", nil)
		req.SetBasicAuth("gp", "right")
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, RoleGP, gotRole)
	})
}
