package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundbook/internal/ledger"
)

type allowAllVerifier struct{}

func (allowAllVerifier) VerifyGP(username, password string) error { return nil }

// newTestRouter wires the handler to a real ledger service over the in-memory
// store so the full decode, gate, service, envelope path runs.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc, err := ledger.New(ledger.NewInMemoryStore())
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler), allowAllVerifier{}).Register(r)
	return r
}

func postJSON(t *testing.T, router chi.Router, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if authed {
		req.SetBasicAuth("gp", "gp-password")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func Test_HandleInject(t *testing.T) {
	router := newTestRouter(t)

	t.Run("requires administrator credentials", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/inject_funds", `{"kind":"PRINCIPAL","amount":500}`, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("records the contribution", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/inject_funds", `{"kind":"PRINCIPAL","amount":500,"description":"seed"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"success"`)
		assert.Contains(t, rec.Body.String(), "injected 500.00 into PRINCIPAL")
	})

	t.Run("rejects a drawdown kind", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/inject_funds", `{"kind":"WITHDRAWAL","amount":10}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"BAD_REQUEST"`)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/inject_funds", `{"kind":"ALPHA","amount":0}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"INVALID_AMOUNT"`)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/inject_funds", `{"kind":`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_HandleAdjust(t *testing.T) {
	router := newTestRouter(t)

	t.Run("requires administrator credentials", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/adjust_funds", `{"direction":"UP","amount":10}`, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("executes an upward correction", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/adjust_funds", `{"direction":"UP","amount":12.5,"description":"missed dividend"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "adjustment executed: UP 12.50")
	})

	t.Run("rejects an unknown direction", func(t *testing.T) {
		rec := postJSON(t, router, "/gp/adjust_funds", `{"direction":"SIDEWAYS","amount":10}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"BAD_REQUEST"`)
	})
}
