package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/middleware"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/services"
)

// LoginRequest for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse for POST /api/auth/login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth   *auth.Service
	audit  services.AuditService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *auth.Service, audit services.AuditService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		audit:  audit,
		logger: logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", authMiddleware.RequireAuth(h.Logout))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Username == "" || req.Password == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "username and password are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Same response for unknown users and wrong passwords.
		h.logger.Warn("Login failed", zap.String("username", req.Username))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	actor := services.Actor{ID: user.ID, Name: user.DisplayName(), IP: middleware.ClientIP(r)}
	h.audit.Record(r.Context(), actor, models.AuditActionLogin, models.AuditModuleAuth, "User logged in")

	if err := WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "No authenticated session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.auth.Revoke(r.Context(), claims); err != nil {
		h.logger.Error("Failed to revoke token",
			zap.String("username", claims.Username),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.audit.Record(r.Context(), actorFromRequest(r), models.AuditActionLogout, models.AuditModuleAuth, "User logged out")

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
