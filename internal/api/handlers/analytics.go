package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/api/middleware"
	"github.com/berthonipasso/portfolio-api/internal/domain"
)

type AnalyticsService interface {
	Record(ctx context.Context, eventType, targetID, clientIP, userAgent string) error
	Summary(ctx context.Context, days int) (*domain.AnalyticsSummary, error)
}

type AnalyticsHandler struct {
	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type RecordEventRequest struct {
	EventType string `json:"event_type"`
	TargetID  string `json:"target_id"`
}

func (h *AnalyticsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.Record(r.Context(), req.EventType, req.TargetID, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type SummaryResponse struct {
	EventCounts    map[string]int64 `json:"event_counts"`
	UniqueVisitors int64            `json:"unique_visitors"`
	ProjectViews   map[string]int64 `json:"project_views"`
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	summary, err := h.svc.Summary(r.Context(), days)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, SummaryResponse{
		EventCounts:    summary.EventCounts,
		UniqueVisitors: summary.UniqueVisitors,
		ProjectViews:   summary.ProjectViews,
	})
}
