package handlers

import (
	"context"
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/domain"
)

type StatsProvider interface {
	Totals(ctx context.Context) (*domain.DashboardTotals, error)
}

type DashboardHandler struct {
	stats StatsProvider
}

func NewDashboardHandler(stats StatsProvider) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

type DashboardResponse struct {
	Projects         int64 `json:"projects"`
	Comments         int64 `json:"comments"`
	Likes            int64 `json:"likes"`
	Messages         int64 `json:"messages"`
	KnowledgeRecords int64 `json:"knowledge_records"`
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.Totals(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DashboardResponse{
		Projects:         totals.Projects,
		Comments:         totals.Comments,
		Likes:            totals.Likes,
		Messages:         totals.Messages,
		KnowledgeRecords: totals.KnowledgeRecords,
	})
}
