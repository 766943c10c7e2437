package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/models"
	"github.com/jansamvad/police-feedback-api/internal/service"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
	"github.com/jansamvad/police-feedback-api/pkg/response"
)

// FeedbackHandler wires HTTP endpoints to the feedback service.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler creates a new handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// Create godoc
// @Summary Submit feedback
// @Description Public endpoint accepting the citizen feedback form, optionally with an image
// @Tags Feedback
// @Accept mpfd
// @Produce json
// @Param name formData string true "Citizen name"
// @Param phone formData string true "Contact phone"
// @Param police_station formData string false "Police station"
// @Param description formData string false "Free-text description"
// @Param overall_rating formData int true "Overall rating 1-10"
// @Param department_ratings formData string false "JSON array of department/rating pairs"
// @Param image formData file false "Supporting image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	var form struct {
		Name              string `form:"name"`
		Phone             string `form:"phone"`
		PoliceStation     string `form:"police_station"`
		Description       string `form:"description"`
		OverallRating     int    `form:"overall_rating"`
		DepartmentRatings string `form:"department_ratings"`
	}
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	input := models.CreateFeedbackInput{
		Name:                  form.Name,
		Phone:                 form.Phone,
		PoliceStation:         form.PoliceStation,
		Description:           form.Description,
		OverallRating:         form.OverallRating,
		DepartmentRatingsJSON: form.DepartmentRatings,
	}

	// The image part is optional; any multipart error other than a missing
	// file is a bad request.
	image, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid image upload"))
		return
	}

	if err := h.service.Create(c.Request.Context(), input, image); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "feedback submitted"})
}

// Stations godoc
// @Summary Station roster
// @Description Fixed list of police stations with local-language names, served to the public form
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stations [get]
func (h *FeedbackHandler) Stations(c *gin.Context) {
	stations := analytics.Stations()
	response.JSON(c, http.StatusOK, stations, map[string]interface{}{"count": len(stations)})
}

// List godoc
// @Summary List feedback
// @Description All submissions, newest first
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /feedback [get]
// @Security BearerAuth
func (h *FeedbackHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Get godoc
// @Summary Get feedback by id
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id} [get]
// @Security BearerAuth
func (h *FeedbackHandler) Get(c *gin.Context) {
	fb, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fb)
}

// MarkRead godoc
// @Summary Mark feedback as read
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id}/read [put]
// @Security BearerAuth
func (h *FeedbackHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "feedback marked as read"})
}

// Delete godoc
// @Summary Delete feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id} [delete]
// @Security BearerAuth
func (h *FeedbackHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "feedback deleted"})
}

// DeleteAll godoc
// @Summary Delete all feedback
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /feedback [delete]
// @Security BearerAuth
func (h *FeedbackHandler) DeleteAll(c *gin.Context) {
	if err := h.service.DeleteAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "all feedback deleted"})
}
