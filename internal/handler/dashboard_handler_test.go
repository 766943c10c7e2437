package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/models"
	"github.com/jansamvad/police-feedback-api/internal/service"
)

func newDashboardHandler(records []models.Feedback) *DashboardHandler {
	repo := &stubFeedbackRepo{records: records}
	svc := service.NewDashboardService(repo, nil, analytics.DefaultConfig(), zap.NewNop())
	return NewDashboardHandler(svc)
}

func TestDashboardHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDashboardHandler([]models.Feedback{
		{ID: "1", OverallRating: 8, CreatedAt: time.Now()},
		{ID: "2", OverallRating: 2, CreatedAt: time.Now()},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 2, envelope.Data["total_feedback"])
	assert.Equal(t, "5.0", envelope.Data["average_rating"])
	assert.Equal(t, false, envelope.Meta["cached"])
}

func TestDashboardHandlerInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary?from=10-03-2026", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerInvalidSentiment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/stations?sentiment=angry", nil)

	handler.Stations(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerDepartments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDashboardHandler([]models.Feedback{
		{ID: "1", OverallRating: 8, CreatedAt: time.Now(), DepartmentRatings: models.DepartmentRatingList{
			{Department: "वाहतूक", Rating: 3},
		}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/departments", nil)

	handler.Departments(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Departments []analytics.DepartmentStat `json:"departments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	byName := map[string]analytics.DepartmentStat{}
	for _, stat := range envelope.Data.Departments {
		byName[stat.Department] = stat
	}
	traffic := byName[analytics.DeptTraffic]
	assert.Equal(t, 1, traffic.FeedbackCount)
	assert.True(t, traffic.NeedsImprovement)
}

func TestDashboardHandlerTrend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDashboardHandler([]models.Feedback{
		{ID: "1", OverallRating: 8, CreatedAt: time.Now()},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/trend", nil)

	handler.Trend(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Points     []analytics.DailyTrendPoint `json:"points"`
			WindowDays int                         `json:"window_days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Points, envelope.Data.WindowDays+1)
}
