package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vinaythanay/Interview-ChatBOt/internal/repository"
	"github.com/vinaythanay/Interview-ChatBOt/internal/service"
)

// ReportHandler serves reports, feedback and the operator insight feed.
type ReportHandler struct {
	reports *service.ReportService
	manager *service.SessionManager
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports *service.ReportService, manager *service.SessionManager) *ReportHandler {
	return &ReportHandler{reports: reports, manager: manager}
}

// Get handles GET /v1/sessions/{id}/report (operator only).
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Insights handles GET /v1/sessions/{id}/insights (operator only).
func (h *ReportHandler) Insights(w http.ResponseWriter, r *http.Request) {
	entries, err := h.manager.RecentInsights(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load insights")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// SubmitFeedback handles POST /v1/sessions/{id}/feedback
func (h *ReportHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reports.SaveFeedback(r.Context(), id, req.Rating, req.Comments); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "submitted"})
}
