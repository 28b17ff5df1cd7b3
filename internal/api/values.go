package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/houseagent/houseagent-core/internal/coordinator"
)

// handleGetValue serves a single value, or, when an action is named in
// the query, dispatches that action to the value's plugin and relays the
// plugin's reply as plain text.
func (s *Server) handleGetValue(w http.ResponseWriter, r *http.Request) {
	v, ok := getOrReload(r.Context(), s.values, chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, "value not found")
		return
	}

	action := r.URL.Query().Get("action")
	if action == "" {
		writeJSON(w, http.StatusOK, v)
		return
	}

	if s.dispatcher == nil {
		writeError(w, http.StatusBadGateway, ErrCodeCoordinator, "coordinator not connected")
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), coordinator.Request{
		PluginID:  strconv.FormatInt(v.PluginID, 10),
		Address:   v.DeviceAddress,
		ValueName: v.Name,
		Action:    action,
		Level:     r.URL.Query().Get("level"),
		Temp:      r.URL.Query().Get("temp"),
	})
	if err != nil {
		s.logger.Warn("action dispatch failed",
			"value_id", v.ID, "action", action, "error", err)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	//nolint:errcheck // Best-effort write; the client may be gone
	w.Write([]byte(result))
}
