package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/houseagent/houseagent-core/internal/plugin"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	mountResource(r, s, "locations", s.locations, nil, nil)
	mountResource(r, s, "plugins", s.plugins, func(plugins []plugin.Plugin) {
		plugin.DecorateStatus(plugins, s.status)
	}, nil)
	mountResource(r, s, "devices", s.devices, nil, nil)
	mountResource(r, s, "values", s.values, nil, s.handleGetValue)
	mountResource(r, s, "history_types", s.historyTypes, nil, nil)
	mountResource(r, s, "history_periods", s.historyPeriods, nil, nil)
	mountResource(r, s, "control_types", s.controlTypes, nil, nil)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleListEvents)
		r.Post("/", s.handleSaveEvent)
		r.Delete("/{id}", s.handleDeleteEvent)

		r.Get("/values", s.handleEventValues)
		r.Get("/value", s.handleEventValue)
		r.Get("/actions", s.handleEventActions)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/latest", s.handleHistoryLatest)
		r.Get("/daily", s.handleHistoryDaily)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
