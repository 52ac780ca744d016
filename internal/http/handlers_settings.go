package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings(r.Context()))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.Settings
	if err := readJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.SaveSettings(r.Context(), settings); err != nil {
		s.logger.Error("Save settings failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not save settings")
		return
	}

	// Currency may have changed, cached responses embed formatted amounts.
	s.invalidate()
	writeJSON(w, http.StatusOK, s.svc.Settings(r.Context()))
}
