package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type recordView struct {
	ID              string `json:"id"`
	Amount          string `json:"amount"`
	FormattedAmount string `json:"formattedAmount"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	Income          bool   `json:"income"`
}

type recordListResponse struct {
	Records  []recordView  `json:"records"`
	Total    int           `json:"total"`
	Currency core.Currency `json:"currency"`
}

type recordRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

type recordPatchRequest struct {
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
}

type recordWriteResponse struct {
	Record   recordView `json:"record"`
	Warnings []string   `json:"warnings,omitempty"`
}

type validationErrorResponse struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r)
	currency := s.currency(r)

	cacheKey := r.URL.RawQuery + "|" + string(currency)
	if cached, ok := s.listCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	records := s.svc.List(r.Context(), criteria)
	pattern := core.MatchPattern(criteria.Query, criteria.Regex)

	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		v := toView(rec, currency)
		v.DescriptionHTML = string(core.Highlight(rec.Description, pattern))
		views = append(views, v)
	}

	resp := recordListResponse{Records: views, Total: len(views), Currency: currency}
	s.listCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate := core.Record{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	}
	created, result, err := s.svc.Create(r.Context(), candidate)
	if err != nil {
		s.logger.Error("Create record failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not save record")
		return
	}
	if !result.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
			Error:    result.Err.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	s.invalidate()
	writeJSON(w, http.StatusCreated, recordWriteResponse{
		Record:   toView(created, s.currency(r)),
		Warnings: result.Warnings,
	})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req recordPatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.RecordPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	}
	updated, result, err := s.svc.Update(r.Context(), id, patch)
	if errors.Is(err, core.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		s.logger.Error("Update record failed", log.FieldRecordID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not update record")
		return
	}
	if !result.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
			Error:    result.Err.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	s.invalidate()
	writeJSON(w, http.StatusOK, recordWriteResponse{
		Record:   toView(updated, s.currency(r)),
		Warnings: result.Warnings,
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.logger.Error("Delete record failed", log.FieldRecordID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not delete record")
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetRecords(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		s.logger.Error("Reset failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not reset records")
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func toView(rec core.Record, currency core.Currency) recordView {
	return recordView{
		ID:              rec.ID,
		Amount:          rec.Amount,
		FormattedAmount: core.FormatCurrency(rec.Amount, currency),
		Description:     rec.Description,
		Category:        rec.Category,
		Date:            rec.Date,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
		Income:          rec.IsIncome(),
	}
}
