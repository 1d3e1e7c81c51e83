package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/alpha-scanner/internal/errors"
	"github.com/alpha-scanner/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondServiceError maps a categorized service error onto the wire.
// Validation errors keep their message verbatim; anything uncategorized
// becomes an opaque 500.
func respondServiceError(w http.ResponseWriter, err error) {
	catErr := apperrors.Categorize(err)
	message := catErr.Message
	if catErr.Category == apperrors.CategorySystem {
		message = "An internal error occurred"
	}
	respondError(w, catErr.StatusCode, catErr.Code, message, catErr.Details)
}
