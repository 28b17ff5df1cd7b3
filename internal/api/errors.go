package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/coordinator"
)

// Error is the structured error envelope every failing endpoint returns.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes the handlers emit.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeValidation        = "validation_error"
	ErrCodeMethodNotAllow    = "method_not_allowed"
	ErrCodeUnsupportedAction = "unsupported_action"
	ErrCodeCoordinator       = "coordinator_unavailable"
	ErrCodeInternal          = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write; the client may be gone
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes the structured error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError translates domain sentinels into wire errors. Anything
// unrecognized is a 500; the caller logs those before calling.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, collection.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, collection.ErrInvalid):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, collection.ErrReadOnly):
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, err.Error())
	case errors.Is(err, coordinator.ErrUnsupportedAction):
		writeError(w, http.StatusBadRequest, ErrCodeUnsupportedAction, err.Error())
	case errors.Is(err, coordinator.ErrMissingParameter):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, coordinator.ErrUnknownPlugin):
		writeNotFound(w, err.Error())
	case errors.Is(err, coordinator.ErrUnavailable):
		writeError(w, http.StatusBadGateway, ErrCodeCoordinator, err.Error())
	default:
		writeInternalError(w, "internal server error")
	}
}
