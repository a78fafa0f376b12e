package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/services"
)

// SkillDocumentsHandler manages evidence documents attached to
// employee-skill records.
type SkillDocumentsHandler struct {
	documents services.DocumentService
	maxUpload int64
	logger    *zap.Logger
}

// NewSkillDocumentsHandler creates a new skill documents handler.
func NewSkillDocumentsHandler(documents services.DocumentService, maxUpload int64, logger *zap.Logger) *SkillDocumentsHandler {
	return &SkillDocumentsHandler{
		documents: documents,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *SkillDocumentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/employee-skills/{employee_skill_id}/documents", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/employee-skills/{employee_skill_id}/documents", authMiddleware.RequireAuth(h.Upload))
	mux.HandleFunc("PATCH /api/employees/{employee_id}/skill-documents/{doc_id}/void", authMiddleware.RequireAuth(h.Void))
	mux.HandleFunc("DELETE /api/employees/{employee_id}/skill-documents/{doc_id}", authMiddleware.RequireRole("admin", h.HardDelete))
}

// List handles GET /api/employee-skills/{employee_skill_id}/documents.
// Documents are grouped per certification event; ?include_deleted=true also
// returns voided documents.
func (h *SkillDocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	recordID, ok := ParseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	groups, err := h.documents.ListGrouped(r.Context(), recordID, includeDeleted)
	if err != nil {
		h.logger.Error("Failed to list skill documents",
			zap.Int64("employee_skill_id", recordID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, groups); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Upload handles POST /api/employee-skills/{employee_skill_id}/documents.
// The multipart form carries a level field and evidence files under
// "documents". A level differing from the record's current one is treated
// as a level change and is step-restricted.
func (h *SkillDocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	recordID, ok := ParseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	form, err := parseEvidenceForm(w, r, h.maxUpload)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	level, err := strconv.Atoi(r.FormValue("level"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "level must be numeric"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	uploads := evidenceUploads(form)
	if len(uploads) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "no_files", "At least one document file is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.documents.UploadForRecord(r.Context(), recordID, level, actorFromRequest(r), uploads)
	if err != nil {
		h.logger.Error("Failed to upload skill documents",
			zap.Int64("employee_skill_id", recordID),
			zap.Int("level", level),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Void handles PATCH /api/employees/{employee_id}/skill-documents/{doc_id}/void.
// Voiding an already-voided document is a success, flagged in the response.
func (h *SkillDocumentsHandler) Void(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}
	docID, ok := ParseDocumentID(w, r, h.logger)
	if !ok {
		return
	}

	alreadyVoided, err := h.documents.SoftDelete(r.Context(), employeeID, docID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to void skill document",
			zap.Int64("employee_id", employeeID),
			zap.String("doc_id", docID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	status := "voided"
	if alreadyVoided {
		status = "already_voided"
	}
	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": status}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// HardDelete handles DELETE /api/employees/{employee_id}/skill-documents/{doc_id}
func (h *SkillDocumentsHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}
	docID, ok := ParseDocumentID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.documents.HardDelete(r.Context(), employeeID, docID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete skill document",
			zap.Int64("employee_id", employeeID),
			zap.String("doc_id", docID.String()),
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
