package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) Totals(ctx context.Context) (*domain.DashboardTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardTotals), args.Error(1)
}

func TestDashboardHandler_Show_Success(t *testing.T) {
	mockStats := new(MockStatsProvider)
	handler := NewDashboardHandler(mockStats)

	mockStats.On("Totals", mock.Anything).Return(&domain.DashboardTotals{
		Projects:         4,
		Comments:         11,
		Likes:            32,
		Messages:         6,
		KnowledgeRecords: 5,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	w := httptest.NewRecorder()

	handler.Show(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"projects":4,"comments":11,"likes":32,"messages":6,"knowledge_records":5}}`, w.Body.String())
	mockStats.AssertExpectations(t)
}

func TestDashboardHandler_Show_StorageError(t *testing.T) {
	mockStats := new(MockStatsProvider)
	handler := NewDashboardHandler(mockStats)

	mockStats.On("Totals", mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeStorage, "failed to load totals"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	w := httptest.NewRecorder()

	handler.Show(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
