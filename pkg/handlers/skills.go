package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/services"
)

// SkillRequest for POST /api/skills and PUT /api/skills/{skill_id}
type SkillRequest struct {
	Name        string `json:"name"`
	OperationID int64  `json:"operation_id"`
}

// SkillsHandler handles skill catalog HTTP requests.
type SkillsHandler struct {
	skills services.SkillService
	logger *zap.Logger
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(skills services.SkillService, logger *zap.Logger) *SkillsHandler {
	return &SkillsHandler{
		skills: skills,
		logger: logger,
	}
}

// RegisterRoutes registers the skills handler's routes on the given mux.
func (h *SkillsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/skills", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/skills", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/skills/{skill_id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/skills/{skill_id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/skills/{skill_id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/skills/{skill_id}/restore", authMiddleware.RequireAuth(h.Restore))
}

// List handles GET /api/skills
func (h *SkillsHandler) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list skills", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skills); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/skills
func (h *SkillsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Name == "" || req.OperationID <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "name and operation_id are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	skill, err := h.skills.Create(r.Context(), req.Name, req.OperationID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to create skill",
			zap.String("name", req.Name),
			zap.Int64("operation_id", req.OperationID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, skill); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/skills/{skill_id}
func (h *SkillsHandler) Get(w http.ResponseWriter, r *http.Request) {
	skillID, ok := ParseSkillID(w, r, h.logger)
	if !ok {
		return
	}

	skill, err := h.skills.Get(r.Context(), skillID)
	if err != nil {
		h.logger.Error("Failed to get skill",
			zap.Int64("skill_id", skillID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skill); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/skills/{skill_id}
func (h *SkillsHandler) Update(w http.ResponseWriter, r *http.Request) {
	skillID, ok := ParseSkillID(w, r, h.logger)
	if !ok {
		return
	}

	var req SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	skill, err := h.skills.Update(r.Context(), skillID, req.Name, req.OperationID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to update skill",
			zap.Int64("skill_id", skillID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skill); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/skills/{skill_id}
func (h *SkillsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	skillID, ok := ParseSkillID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.skills.Delete(r.Context(), skillID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete skill",
			zap.Int64("skill_id", skillID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Restore handles POST /api/skills/{skill_id}/restore
func (h *SkillsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	skillID, ok := ParseSkillID(w, r, h.logger)
	if !ok {
		return
	}

	skill, err := h.skills.Restore(r.Context(), skillID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to restore skill",
			zap.Int64("skill_id", skillID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skill); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
