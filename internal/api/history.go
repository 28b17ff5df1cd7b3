package api

import "net/http"

// handleHistoryLatest serves the raw sample series for one value, as
// [timestamp_ms, value] pairs.
func (s *Server) handleHistoryLatest(w http.ResponseWriter, r *http.Request) {
	valueID := r.URL.Query().Get("val_id")
	if valueID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "val_id is required")
		return
	}

	points, err := s.history.Latest(r.Context(), valueID)
	if err != nil {
		s.logger.Error("history query failed", "value_id", valueID, "error", err)
		writeInternalError(w, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleHistoryDaily serves the daily aggregate series for one value:
// four parallel arrays of value, min, average and max points.
func (s *Server) handleHistoryDaily(w http.ResponseWriter, r *http.Request) {
	valueID := r.URL.Query().Get("val_id")
	if valueID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "val_id is required")
		return
	}

	series, err := s.history.Daily(r.Context(), valueID)
	if err != nil {
		s.logger.Error("history query failed", "value_id", valueID, "error", err)
		writeInternalError(w, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, series)
}
