package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"fundbook/pkg/requestcontext"
)

// SessionValidator defines the interface for validating beneficiary session tokens.
type SessionValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims represents the claims we expect from the session validator.
type SessionClaims struct {
	Role      string
	SessionID string
}

// GPVerifier defines the interface for checking administrator Basic credentials.
type GPVerifier interface {
	VerifyGP(username, password string) error
}

// RoleGP and RoleLP identify the two principals.
const (
	RoleGP = "gp"
	RoleLP = "lp"
)

// RequireSession gates beneficiary mutations behind a bearer session token.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				// No Authorization header or invalid format
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := requestcontext.WithRole(r.Context(), claims.Role)
			ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGP gates administrator endpoints behind HTTP Basic credentials.
func RequireGP(verifier GPVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="fundbook"`)
				writeUnauthorized(w, "missing credentials")
				return
			}
			if err := verifier.VerifyGP(username, password); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - bad admin credentials",
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="fundbook"`)
				writeUnauthorized(w, "invalid credentials")
				return
			}

			ctx := requestcontext.WithRole(r.Context(), RoleGP)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"UNAUTHORIZED","message":"` + message + `"}`))
}
