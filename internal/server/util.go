package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/updater"
)

// writeJSONObject simply writes object to the HTTP response in JSON format
func writeJSONObject(w http.ResponseWriter, obj interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("failed encoding response: %v", err)
	}
}

// writeErrorResponse prepares and writes an error response in JSON
func writeErrorResponse(errMsg string, httpStatus int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(httpStatus)
	err := json.NewEncoder(w).Encode(&api.ErrorResponse{
		Message: errMsg,
		Code:    httpStatus,
	})
	if err != nil {
		http.Error(w, "failed handling request", http.StatusInternalServerError)
	}
}

// writeError converts an error to a JSON error response. Lifecycle
// serialization conflicts map to 409, a missing update to 412, source and
// pipeline failures to 502, anything unrecognized to 500.
func writeError(err error, w http.ResponseWriter) {
	log.Errorf("got a handler error: %s", err)

	httpStatus := http.StatusInternalServerError
	switch {
	case errors.Is(err, updater.ErrBusy), errors.Is(err, updater.ErrInvalidTransition):
		httpStatus = http.StatusConflict
	case errors.Is(err, updater.ErrNoUpdateAvailable):
		httpStatus = http.StatusPreconditionFailed
	default:
		if _, ok := updater.FromError(err); ok {
			httpStatus = http.StatusBadGateway
		}
	}

	writeErrorResponse(strings.ToLower(err.Error()), httpStatus, w)
}
