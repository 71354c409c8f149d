package handlers

import (
	"net/http"
	"strconv"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/services"
)

type DashboardHandler struct {
	statsService *services.StatsService
}

func NewDashboardHandler(statsService *services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsService.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load summary", r))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Limit must be between 1 and 100", r))
			return
		}
		limit = n
	}

	items, err := h.statsService.RecentActivity(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load activity", r))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DashboardHandler) SetsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.SetStatistics(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load set statistics", r))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) StudyTime(w http.ResponseWriter, r *http.Request) {
	dist, err := h.statsService.StudyTime(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load study time", r))
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
