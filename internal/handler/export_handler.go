package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jansamvad/police-feedback-api/internal/service"
	"github.com/jansamvad/police-feedback-api/pkg/response"
)

// ExportHandler serves downloadable feedback reports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export feedback
// @Description Download the filtered collection as CSV or PDF
// @Tags Export
// @Produce octet-stream
// @Param format query string false "csv|pdf (default csv)"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param station query string false "Police station"
// @Param sentiment query string false "positive|neutral|negative"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /feedback/export [get]
// @Security BearerAuth
func (h *ExportHandler) Export(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))

	result, err := h.service.Export(c.Request.Context(), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
