package api

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// respondJSON writes data as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError writes the standard failure envelope.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
