// Package shared is the single place responses are shaped. Every route
// returns either {<resource>: T} with a 2xx status or {error: string} with
// the status the error code maps to; nothing writes envelopes by hand.
package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "hacklabconnect/pkg/domain-errors"
)

// WriteJSON writes a success envelope: the value keyed under its resource
// name. A 2xx envelope never carries an error field.
func WriteJSON(w http.ResponseWriter, status int, field string, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{field: value})
}

// WriteNoContent reports success with an empty body.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError maps a domain error to the fixed status table and writes the
// error envelope. Expected rejections pass their message through; internal
// and partial-update failures are reduced to a generic message so the
// store's raw error text never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": dErrors.PublicMessage(err)})
}

// LogError records an internal failure with enough context for offline
// diagnosis. Expected rejections (401/403/400/404) are logged at warn by the
// callers that produce them; only upstream and internal failures come here.
func LogError(logger *slog.Logger, r *http.Request, operation, requestID, identityID string, err error) {
	logger.ErrorContext(r.Context(), "operation failed",
		"operation", operation,
		"error", err.Error(),
		"request_id", requestID,
		"identity_id", identityID,
	)
}

// LogDenied records an expected authorization rejection at warn level.
func LogDenied(logger *slog.Logger, r *http.Request, operation, requestID string, err error) {
	logger.WarnContext(r.Context(), "request denied",
		"operation", operation,
		"error", err.Error(),
		"request_id", requestID,
	)
}
