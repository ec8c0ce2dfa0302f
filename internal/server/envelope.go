package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mayagenie/backend/internal/api"
	"github.com/mayagenie/backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Failed to encode response envelope", "error", err)
	}
}

// writeData emits a success envelope with the given payload.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, api.OK(data))
}

// writeError normalizes err into the taxonomy and emits a failure envelope
// with the matching HTTP status.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	writeJSON(w, appErr.HTTPStatus(), api.Fail(appErr))
}
