package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/event"
	"github.com/houseagent/houseagent-core/internal/value"
)

// handleListEvents returns the full reconstructed automation view.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	view, err := s.reconstructor.View(r.Context())
	if err != nil {
		s.logger.Error("event reconstruction failed", "error", err)
		writeInternalError(w, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSaveEvent persists a rule from the JSON save shape and tells the
// notifier to pick it up.
func (s *Server) handleSaveEvent(w http.ResponseWriter, r *http.Request) {
	var req event.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed JSON body")
		return
	}

	id, err := s.events.Save(r.Context(), req)
	if err != nil {
		s.logDomainFailure("save", "events", err)
		writeDomainError(w, err)
		return
	}
	if s.notifier != nil {
		s.notifier.Reload()
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleDeleteEvent removes an event and everything hanging off it.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "event id must be numeric")
		return
	}

	if err := s.events.Delete(r.Context(), id); err != nil {
		s.logDomainFailure("delete", "events", err)
		writeDomainError(w, err)
		return
	}
	if s.notifier != nil {
		s.notifier.Reload()
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEventValues returns the id to name map of a device's values, for
// the rule editor's value picker.
func (s *Server) handleEventValues(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceid")
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "deviceid is required")
		return
	}

	pairs, err := s.valueLookups.ByDevice(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("event value listing failed", "device_id", deviceID, "error", err)
		writeDomainError(w, err)
		return
	}

	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		out[strconv.FormatInt(pair.ID, 10)] = pair.Name
	}
	writeJSON(w, http.StatusOK, out)
}

// handleEventValue returns a value's current value as raw text.
func (s *Server) handleEventValue(w http.ResponseWriter, r *http.Request) {
	valueID := r.URL.Query().Get("valueid")
	if valueID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "valueid is required")
		return
	}

	current, err := s.valueLookups.Current(r.Context(), valueID)
	if err != nil {
		s.logDomainFailure("lookup", "events", err)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	//nolint:errcheck // Best-effort write; the client may be gone
	w.Write([]byte(current))
}

// handleEventActions returns the action labels a value's control type
// offers. A value with no control type still answers, with the
// no-actions label set.
func (s *Server) handleEventActions(w http.ResponseWriter, r *http.Request) {
	valueID := r.URL.Query().Get("valueid")
	if valueID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "valueid is required")
		return
	}

	controlType, err := s.valueLookups.ControlTypeName(r.Context(), valueID)
	if err != nil && !errors.Is(err, collection.ErrNotFound) {
		s.logger.Error("control type lookup failed", "value_id", valueID, "error", err)
		writeInternalError(w, "failed to resolve control type")
		return
	}

	writeJSON(w, http.StatusOK, value.ActionLabels(controlType))
}
