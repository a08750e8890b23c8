package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// errorBody is the machine-readable error response shape.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeReason(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, errorBody{Error: message, Reason: reason})
}

// writeError maps domain errors onto distinguishable HTTP responses.
//
// Truly unexpected errors are logged and returned as an opaque 500 without
// leaking internal detail.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrNotConnected):
		writeReason(w, http.StatusUnauthorized, "not_connected", "no Spotify connection found")
	case errors.Is(err, shared.ErrReauthRequired):
		writeReason(w, http.StatusUnauthorized, "reauthorization_required", "Spotify connection is no longer valid, reconnect required")
	case errors.Is(err, shared.ErrStateMismatch):
		writeReason(w, http.StatusBadRequest, "state_mismatch", "authorization state did not match")
	case errors.Is(err, shared.ErrNoCandidates):
		writeReason(w, http.StatusUnprocessableEntity, "no_candidates", "no tracks matched the requested genre and mood")
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		writeReason(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		writeReason(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrNotAuthenticated):
		writeReason(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, shared.ErrExternalService):
		writeReason(w, http.StatusBadGateway, "external_service_error", "Spotify is unavailable, try again shortly")
	default:
		logger.Error("unexpected error", "error", err)
		writeReason(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return shared.ErrInvalidInput
	}
	return nil
}
