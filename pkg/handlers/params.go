package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseEmployeeID extracts and validates the employee ID from the request path.
// Returns the parsed ID and true on success, or 0 and false on error
// (after writing an error response).
// Expects path parameter: employee_id
func ParseEmployeeID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64(w, r, "employee_id", "invalid_employee_id", "Invalid employee ID format", logger)
}

// ParseSkillID extracts and validates the skill ID from the request path.
// Returns the parsed ID and true on success, or 0 and false on error
// (after writing an error response).
// Expects path parameter: skill_id
func ParseSkillID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64(w, r, "skill_id", "invalid_skill_id", "Invalid skill ID format", logger)
}

// ParseAreaID extracts and validates the area ID from the request path.
// Expects path parameter: area_id
func ParseAreaID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64(w, r, "area_id", "invalid_area_id", "Invalid area ID format", logger)
}

// ParseRecordID extracts and validates the employee-skill record ID from the
// request path.
// Expects path parameter: employee_skill_id
func ParseRecordID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64(w, r, "employee_skill_id", "invalid_employee_skill_id", "Invalid employee skill ID format", logger)
}

// ParseOperationID extracts and validates the operation ID from the request path.
// Expects path parameter: operation_id
func ParseOperationID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64(w, r, "operation_id", "invalid_operation_id", "Invalid operation ID format", logger)
}

// ParseDocumentID extracts and validates the document ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: doc_id
func ParseDocumentID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue("doc_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_document_id", "Invalid document ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// ParseNotificationID extracts and validates the notification ID from the
// request path.
// Expects path parameter: notification_id
func ParseNotificationID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue("notification_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_notification_id", "Invalid notification ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// parseInt64 is the internal helper that does the actual parsing work.
func parseInt64(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (int64, bool) {
	idStr := r.PathValue(pathParam)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// optionalInt64Query parses an optional int64 query parameter. A missing or
// empty value yields nil; a malformed value is reported as ok == false.
func optionalInt64Query(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
