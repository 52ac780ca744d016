package http

import (
	"net/http"

	"fintrack/internal/core"
)

type notificationView struct {
	Message  string        `json:"message"`
	Severity core.Severity `json:"severity"`
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	events := s.recorder.Events()
	views := make([]notificationView, 0, len(events))
	for _, e := range events {
		views = append(views, notificationView{Message: e.Message, Severity: e.Severity})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.recorder.Reset()
	w.WriteHeader(http.StatusNoContent)
}
