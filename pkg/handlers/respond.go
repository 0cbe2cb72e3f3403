// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON envelope for handler errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON writes payload as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("encode response failed", "error", err)
		}
	}
}

// RespondError logs the error and writes it as a JSON error envelope.
// Internal server errors are masked with a generic message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	RespondJSON(w, status, ErrorResponse{Error: message})
}
