package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/services"
)

// NotificationsHandler serves the calling user's notifications.
type NotificationsHandler struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(notifications services.NotificationService, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// RegisterRoutes registers the notifications handler's routes on the given mux.
func (h *NotificationsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PATCH /api/notifications/{notification_id}/read", authMiddleware.RequireAuth(h.MarkRead))
}

// List handles GET /api/notifications
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notifications, err := h.notifications.List(r.Context(), actor.ID, limit)
	if err != nil {
		h.logger.Error("Failed to list notifications",
			zap.Int64("user_id", actor.ID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, notifications); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkRead handles PATCH /api/notifications/{notification_id}/read
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := ParseNotificationID(w, r, h.logger)
	if !ok {
		return
	}

	actor := actorFromRequest(r)
	if err := h.notifications.MarkRead(r.Context(), notificationID, actor.ID); err != nil {
		h.logger.Error("Failed to mark notification read",
			zap.String("notification_id", notificationID.String()),
			zap.Int64("user_id", actor.ID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "read"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
