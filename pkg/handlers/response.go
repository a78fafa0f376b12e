package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plantops/skilltrack/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps service-layer errors onto the HTTP error taxonomy.
func WriteServiceError(w http.ResponseWriter, err error) error {
	if nse, ok := apperrors.IsNonSequential(err); ok {
		return ErrorResponse(w, http.StatusBadRequest, "non_sequential_transition", nse.Error())
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidLevel):
		return ErrorResponse(w, http.StatusBadRequest, "invalid_level", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, apperrors.ErrConflict):
		return ErrorResponse(w, http.StatusConflict, "conflict", "a record with that unique value already exists")
	case errors.Is(err, apperrors.ErrForbidden):
		return ErrorResponse(w, http.StatusForbidden, "forbidden", "not allowed for this resource")
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrTokenRevoked):
		return ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	default:
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
