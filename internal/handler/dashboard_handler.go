package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/service"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
	"github.com/jansamvad/police-feedback-api/pkg/response"
)

// DashboardHandler serves the admin dashboard aggregates.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Dashboard headline counts
// @Description Today/total counts, average rating and sentiment breakdown
// @Tags Dashboard
// @Produce json
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param station query string false "Police station"
// @Param sentiment query string false "positive|neutral|negative"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/summary [get]
// @Security BearerAuth
func (h *DashboardHandler) Summary(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, cached, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, metaFor(cached))
}

// Departments godoc
// @Summary Per-department averages
// @Description Averages with improvement flags, department labels normalised across languages
// @Tags Dashboard
// @Produce json
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param station query string false "Police station"
// @Param sentiment query string false "positive|neutral|negative"
// @Success 200 {object} response.Envelope
// @Router /dashboard/departments [get]
// @Security BearerAuth
func (h *DashboardHandler) Departments(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, cached, err := h.service.Departments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, metaFor(cached))
}

// Stations godoc
// @Summary Per-station breakdown
// @Description Counts and averages per station plus the top-3 lists
// @Tags Dashboard
// @Produce json
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param sentiment query string false "positive|neutral|negative"
// @Success 200 {object} response.Envelope
// @Router /dashboard/stations [get]
// @Security BearerAuth
func (h *DashboardHandler) Stations(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, cached, err := h.service.Stations(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, metaFor(cached))
}

// Trend godoc
// @Summary Daily submission trend
// @Description Zero-filled daily counts over the configured window
// @Tags Dashboard
// @Produce json
// @Param station query string false "Police station"
// @Param sentiment query string false "positive|neutral|negative"
// @Success 200 {object} response.Envelope
// @Router /dashboard/trend [get]
// @Security BearerAuth
func (h *DashboardHandler) Trend(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, cached, err := h.service.Trend(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, metaFor(cached))
}

func parseFilter(c *gin.Context) (analytics.Filter, error) {
	var filter analytics.Filter

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid from date %q, expected YYYY-MM-DD", raw))
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid to date %q, expected YYYY-MM-DD", raw))
		}
		filter.To = &t
	}
	filter.Station = c.Query("station")

	switch raw := c.Query("sentiment"); raw {
	case "":
	case string(analytics.SentimentPositive), string(analytics.SentimentNeutral), string(analytics.SentimentNegative):
		filter.Sentiment = analytics.Sentiment(raw)
	default:
		return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid sentiment %q", raw))
	}

	return filter, nil
}

func metaFor(cached bool) map[string]interface{} {
	return map[string]interface{}{"cached": cached}
}
