package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/services"
)

// EmployeesHandler handles employee HTTP requests.
type EmployeesHandler struct {
	employees services.EmployeeService
	logger    *zap.Logger
}

// NewEmployeesHandler creates a new employees handler.
func NewEmployeesHandler(employees services.EmployeeService, logger *zap.Logger) *EmployeesHandler {
	return &EmployeesHandler{
		employees: employees,
		logger:    logger,
	}
}

// RegisterRoutes registers the employees handler's routes on the given mux.
// The by-code lookup is unauthenticated: it backs kiosk badge scanners on
// the shop floor.
func (h *EmployeesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/employees", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/employees", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/employees/{employee_id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/employees/{employee_id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/employees/{employee_id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/employees/{employee_id}/restore", authMiddleware.RequireAuth(h.Restore))
	mux.HandleFunc("GET /api/public/employees/{code}", h.GetByCode)
}

// List handles GET /api/employees
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list employees", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, employees); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/employees
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if input.EmployeeCode == "" || input.FullName == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "employee_code and full_name are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	employee, err := h.employees.Create(r.Context(), &input, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to create employee",
			zap.String("employee_code", input.EmployeeCode),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, employee); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/employees/{employee_id}
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}

	employee, err := h.employees.Get(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("Failed to get employee",
			zap.Int64("employee_id", employeeID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, employee); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetByCode handles GET /api/public/employees/{code}
func (h *EmployeesHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_employee_code", "Employee code is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	employee, err := h.employees.GetByCode(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to get employee by code",
			zap.String("employee_code", code),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, employee); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/employees/{employee_id}
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}

	var input models.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	employee, err := h.employees.Update(r.Context(), employeeID, &input, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to update employee",
			zap.Int64("employee_id", employeeID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, employee); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/employees/{employee_id}
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.employees.Delete(r.Context(), employeeID, actorFromRequest(r)); err != nil {
		h.logger.Error("Failed to delete employee",
			zap.Int64("employee_id", employeeID),
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

// Restore handles POST /api/employees/{employee_id}/restore
func (h *EmployeesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := ParseEmployeeID(w, r, h.logger)
	if !ok {
		return
	}

	employee, err := h.employees.Restore(r.Context(), employeeID, actorFromRequest(r))
	if err != nil {
		h.logger.Error("Failed to restore employee",
			zap.Int64("employee_id", employeeID),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, employee); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
