package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonInternalError writes a 500 response carrying the underlying cause.
func jsonInternalError(w http.ResponseWriter, message string, err error) {
	slog.Error(message, "error", err)
	jsonResponse(w, http.StatusInternalServerError, map[string]string{
		"error":   message,
		"details": err.Error(),
	})
}

// writeError maps the error taxonomy onto HTTP responses. Messages for the
// expected cases are fixed; anything else is reported as internalMsg.
func writeError(w http.ResponseWriter, err error, notFoundMsg, conflictMsg, internalMsg string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, model.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, msgLoginRequired)
	case errors.Is(err, model.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, model.ErrInvalidCredentials.Error())
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, model.ErrConflict):
		jsonError(w, http.StatusConflict, conflictMsg)
	default:
		jsonInternalError(w, internalMsg, err)
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}
