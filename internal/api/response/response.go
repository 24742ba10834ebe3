// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error,
// such as the per-field messages of a validation failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent.
// Encoding errors are logged through the global zap logger; the status has already
// been written by then.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Error("failed to encode JSON response",
				zap.String("op", "response.RespondJSON"),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, a map of field messages, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
//	response.RespondError(w, http.StatusNotFound, apperrors.ErrNoData.Error(), err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
