package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/services"
)

// AreaRequest for POST /api/areas and PUT /api/areas/{area_id}
type AreaRequest struct {
	Name         string `json:"name"`
	SupervisorID *int64 `json:"supervisor_id,omitempty"`
}

// OperationRequest for POST /api/operations and PUT /api/operations/{operation_id}
type OperationRequest struct {
	Name       string `json:"name"`
	AreaID     int64  `json:"area_id"`
	IsCritical bool   `json:"is_critical"`
}

// CatalogHandler handles area and operation HTTP requests.
type CatalogHandler struct {
	catalog services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog handler's routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/areas", authMiddleware.RequireAuth(h.ListAreas))
	mux.HandleFunc("POST /api/areas", authMiddleware.RequireAuth(h.CreateArea))
	mux.HandleFunc("GET /api/areas/{area_id}", authMiddleware.RequireAuth(h.GetArea))
	mux.HandleFunc("PUT /api/areas/{area_id}", authMiddleware.RequireAuth(h.UpdateArea))
	mux.HandleFunc("DELETE /api/areas/{area_id}", authMiddleware.RequireAuth(h.DeleteArea))
	mux.HandleFunc("POST /api/areas/{area_id}/restore", authMiddleware.RequireAuth(h.RestoreArea))

	mux.HandleFunc("GET /api/operations", authMiddleware.RequireAuth(h.ListOperations))
	mux.HandleFunc("POST /api/operations", authMiddleware.RequireAuth(h.CreateOperation))
	mux.HandleFunc("GET /api/operations/{operation_id}", authMiddleware.RequireAuth(h.GetOperation))
	mux.HandleFunc("PUT /api/operations/{operation_id}", authMiddleware.RequireAuth(h.UpdateOperation))
	mux.HandleFunc("DELETE /api/operations/{operation_id}", authMiddleware.RequireAuth(h.DeleteOperation))
	mux.HandleFunc("POST /api/operations/{operation_id}/restore", authMiddleware.RequireAuth(h.RestoreOperation))
}

// ListAreas handles GET /api/areas
func (h *CatalogHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.catalog.ListAreas(r.Context())
	if err != nil {
		h.logger.Error("Failed to list areas", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, areas); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateArea handles POST /api/areas
func (h *CatalogHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req AreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Name == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	area, err := h.catalog.CreateArea(r.Context(), req.Name, req.SupervisorID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to create area", zap.String("name", req.Name), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, area); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetArea handles GET /api/areas/{area_id}
func (h *CatalogHandler) GetArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := ParseAreaID(w, r, h.logger)
	if !ok {
		return
	}

	area, err := h.catalog.GetArea(r.Context(), areaID)
	if err != nil {
		h.logger.Error("Failed to get area", zap.Int64("area_id", areaID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, area); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateArea handles PUT /api/areas/{area_id}
func (h *CatalogHandler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := ParseAreaID(w, r, h.logger)
	if !ok {
		return
	}

	var req AreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	area, err := h.catalog.UpdateArea(r.Context(), areaID, req.Name, req.SupervisorID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to update area", zap.Int64("area_id", areaID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, area); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteArea handles DELETE /api/areas/{area_id}
func (h *CatalogHandler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := ParseAreaID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.catalog.DeleteArea(r.Context(), areaID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete area", zap.Int64("area_id", areaID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// RestoreArea handles POST /api/areas/{area_id}/restore
func (h *CatalogHandler) RestoreArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := ParseAreaID(w, r, h.logger)
	if !ok {
		return
	}

	area, err := h.catalog.RestoreArea(r.Context(), areaID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to restore area", zap.Int64("area_id", areaID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, area); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListOperations handles GET /api/operations
func (h *CatalogHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := h.catalog.ListOperations(r.Context())
	if err != nil {
		h.logger.Error("Failed to list operations", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, operations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateOperation handles POST /api/operations
func (h *CatalogHandler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Name == "" || req.AreaID <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "name and area_id are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	operation, err := h.catalog.CreateOperation(r.Context(), req.Name, req.AreaID, req.IsCritical, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to create operation", zap.String("name", req.Name), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, operation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetOperation handles GET /api/operations/{operation_id}
func (h *CatalogHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	operationID, ok := ParseOperationID(w, r, h.logger)
	if !ok {
		return
	}

	operation, err := h.catalog.GetOperation(r.Context(), operationID)
	if err != nil {
		h.logger.Error("Failed to get operation", zap.Int64("operation_id", operationID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, operation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateOperation handles PUT /api/operations/{operation_id}
func (h *CatalogHandler) UpdateOperation(w http.ResponseWriter, r *http.Request) {
	operationID, ok := ParseOperationID(w, r, h.logger)
	if !ok {
		return
	}

	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	operation, err := h.catalog.UpdateOperation(r.Context(), operationID, req.Name, req.AreaID, req.IsCritical, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to update operation", zap.Int64("operation_id", operationID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, operation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteOperation handles DELETE /api/operations/{operation_id}
func (h *CatalogHandler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	operationID, ok := ParseOperationID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.catalog.DeleteOperation(r.Context(), operationID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete operation", zap.Int64("operation_id", operationID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// RestoreOperation handles POST /api/operations/{operation_id}/restore
func (h *CatalogHandler) RestoreOperation(w http.ResponseWriter, r *http.Request) {
	operationID, ok := ParseOperationID(w, r, h.logger)
	if !ok {
		return
	}

	operation, err := h.catalog.RestoreOperation(r.Context(), operationID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to restore operation", zap.Int64("operation_id", operationID), zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, operation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
