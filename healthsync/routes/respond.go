package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/utils/logging"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP statuses. Upstream
// and persistence details are logged but never leaked to the client.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *triage.ValidationError
	if errors.As(err, &validationErr) {
		http.Error(w, validationErr.Detail, http.StatusBadRequest)
		return
	}

	var upstreamErr *triage.UpstreamServiceError
	if errors.As(err, &upstreamErr) {
		logging.ErrorLogger.Error("upstream service error", zap.Error(err))
		http.Error(w, "an error occurred while processing the request", http.StatusBadGateway)
		return
	}

	logging.ErrorLogger.Error("request failed", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
