package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/apperrors"
)

// Middleware authenticates requests and optionally enforces a role.
type Middleware struct {
	service *Service
	enabled bool
	logger  *zap.Logger
}

// NewMiddleware creates auth middleware. When enabled is false all
// requests pass through with a development identity; this mirrors running
// without an auth server locally.
func NewMiddleware(service *Service, enabled bool, logger *zap.Logger) *Middleware {
	return &Middleware{service: service, enabled: enabled, logger: logger.Named("auth-middleware")}
}

// RequireAuth wraps a handler, rejecting requests without a valid token.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next(w, r.WithContext(WithClaims(r.Context(), &Claims{UserID: 1, Username: "dev", Role: "admin"})))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "missing_token", "Authorization header with bearer token required")
			return
		}

		claims, err := m.service.Verify(r.Context(), token)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, apperrors.ErrTokenRevoked) {
				code = "token_revoked"
			}
			writeAuthError(w, http.StatusUnauthorized, code, "invalid or expired token")
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// RequireRole wraps a handler, additionally requiring the given role.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || claims.Role != role {
			writeAuthError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}`))
}
