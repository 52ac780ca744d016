package http

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/log"
)

const maxImportSize = 10 << 20 // 10 MiB

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("fintrack-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := s.backupMgr.Export(r.Context(), w); err != nil {
		s.logger.Error("Export failed", log.FieldError, err)
		// Headers are already out; nothing sensible left to send.
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	n, err := s.backupMgr.Import(r.Context(), body)
	if err != nil {
		s.logger.Warn("Import rejected", log.FieldError, err)
		writeError(w, http.StatusUnprocessableEntity, "archive could not be imported")
		return
	}

	s.invalidate()
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}
