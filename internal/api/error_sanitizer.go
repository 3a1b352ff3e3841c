package api

import (
	"errors"
	"net/http"

	"github.com/ignite/subscriber-portal/internal/directory"
	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// Remote API failures carry upstream error text (URLs, status bodies,
// sometimes key fragments) that must never reach API consumers. Service
// errors are mapped to a status code and a fixed public message here; the
// full error goes to the log with the operation name.

// respondServiceError logs the internal error and sends the sanitized
// failure envelope for it.
func respondServiceError(w http.ResponseWriter, op string, err error, fields ...interface{}) {
	code, msg := classifyServiceError(err)
	if errors.Is(err, directory.ErrRemoteUnavailable) {
		RecordRemoteError(op)
	}
	logFields := append([]interface{}{"operation", op, "status", code, "error", err}, fields...)
	if code >= 500 {
		logger.Error("request failed", logFields...)
	} else {
		logger.Warn("request rejected", logFields...)
	}
	respondError(w, code, msg)
}

// classifyServiceError maps the directory error taxonomy to a status code
// and a public-safe message.
func classifyServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, directory.ErrInvalidCountry):
		return http.StatusBadRequest, "Invalid country provided"
	case errors.Is(err, directory.ErrNotFound):
		return http.StatusNotFound, "Subscriber not found"
	case errors.Is(err, directory.ErrRemoteUnavailable):
		return http.StatusBadGateway, "Mailing service is temporarily unavailable"
	default:
		return http.StatusInternalServerError, "An internal error occurred"
	}
}
