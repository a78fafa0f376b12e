package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/services"
)

// EmployeeSkillsHandler exposes the skill progression engine: level changes
// with evidence, per-employee skill listings, the area training matrix and
// assignment removal.
type EmployeeSkillsHandler struct {
	progression services.ProgressionService
	maxUpload   int64
	logger      *zap.Logger
}

// NewEmployeeSkillsHandler creates a new employee skills handler.
func NewEmployeeSkillsHandler(progression services.ProgressionService, maxUpload int64, logger *zap.Logger) *EmployeeSkillsHandler {
	return &EmployeeSkillsHandler{
		progression: progression,
		maxUpload:   maxUpload,
		logger:      logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux. The
// by-code listing is unauthenticated, like the public employee lookup.
func (h *EmployeeSkillsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/employee-skills", authMiddleware.RequireAuth(h.ApplyLevelChange))
	mux.HandleFunc("GET /api/employee-skills/{employee_id}", authMiddleware.RequireAuth(h.ListForEmployee))
	mux.HandleFunc("DELETE /api/employee-skills/{employee_id}/{skill_id}", authMiddleware.RequireAuth(h.DeleteAssignment))
	mux.HandleFunc("GET /api/skills/by-area/{area_id}", authMiddleware.RequireAuth(h.ListForArea))
	mux.HandleFunc("GET /api/public/employees/{code}/skills", h.ListForEmployeeCode)
}

// ApplyLevelChange handles POST /api/employee-skills. The body is a
// multipart form with employee_id, skill_id and level fields plus optional
// evidence files under "documents".
func (h *EmployeeSkillsHandler) ApplyLevelChange(w http.ResponseWriter, r *http.Request) {
	form, err := parseEvidenceForm(w, r, h.maxUpload)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	employeeID, err1 := strconv.ParseInt(r.FormValue("employee_id"), 10, 64)
	skillID, err2 := strconv.ParseInt(r.FormValue("skill_id"), 10, 64)
	level, err3 := strconv.Atoi(r.FormValue("level"))
	if err1 != nil || err2 != nil || err3 != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "employee_id, skill_id and level must be numeric"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.progression.ApplyLevelChange(r.Context(), employeeID, skillID, level, actorFromRequest(r), evidenceUploads(form))
	if err != nil {
		h.logger.Error("Failed to apply level change",
			zap.Int64("employee_id", employeeID),
			zap.Int64("skill_id", skillID),
			zap.Int("level", level),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListForEmployee handles GET /api/employee-skills/{employee_id}
func (h *EmployeeSkillsHandler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}

	skills, err := h.progression.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("Failed to list employee skills",
			zap.Int64("employee_id", employeeID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skills); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteAssignment handles DELETE /api/employee-skills/{employee_id}/{skill_id}
func (h *EmployeeSkillsHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}
	skillID, ok := ParseSkillID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.progression.DeleteAssignment(r.Context(), employeeID, skillID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete skill assignment",
			zap.Int64("employee_id", employeeID),
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

// ListForEmployeeCode handles GET /api/public/employees/{code}/skills
func (h *EmployeeSkillsHandler) ListForEmployeeCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	skills, err := h.progression.ListForEmployeeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to list skills by employee code",
			zap.String("code", code),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, skills); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListForArea handles GET /api/skills/by-area/{area_id}. Optional shift_id
// and class_id query parameters narrow the matrix.
func (h *EmployeeSkillsHandler) ListForArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := ParseAreaID(w, r, h.logger)
	if !ok {
		return
	}

	shiftID, ok := optionalInt64Query(r, "shift_id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_shift_id", "shift_id must be numeric"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	classID, ok := optionalInt64Query(r, "class_id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_class_id", "class_id must be numeric"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	rows, err := h.progression.ListForArea(r.Context(), areaID, shiftID, classID)
	if err != nil {
		h.logger.Error("Failed to list area skill matrix",
			zap.Int64("area_id", areaID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, rows); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
