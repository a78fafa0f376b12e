package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/services"
)

// LogsHandler exposes read access to the audit trail.
type LogsHandler struct {
	audit  services.AuditService
	logger *zap.Logger
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(audit services.AuditService, logger *zap.Logger) *LogsHandler {
	return &LogsHandler{
		audit:  audit,
		logger: logger,
	}
}

// RegisterRoutes registers the logs handler's routes on the given mux.
func (h *LogsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/logs", authMiddleware.RequireAuth(h.Query))
	mux.HandleFunc("GET /api/logs/recent", authMiddleware.RequireAuth(h.Recent))
}

// Query handles GET /api/logs. Supported query parameters: module, user_id,
// action, from, until, search, limit. from/until accept either a date
// ("2024-01-02", expanded to cover the whole day) or a date-time
// ("2024-01-02T15:04:05").
func (h *LogsHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.AuditLogFilter{
		Module: q.Get("module"),
		Action: q.Get("action"),
		Search: q.Get("search"),
	}

	if raw := q.Get("user_id"); raw != "" {
		actorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_user_id", "user_id must be numeric"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		filter.ActorID = actorID
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		filter.Limit = limit
	}

	from, until, err := services.ExpandDateRange(q.Get("from"), q.Get("until"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_date_range", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	filter.From = from
	filter.Until = until

	entries, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to query audit log", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Recent handles GET /api/logs/recent
func (h *LogsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list recent audit entries", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
