package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/service"
	"github.com/campuspulse/campus-events-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, req dto.ListEventsRequest, format service.ExportFormat) ([]byte, string, string, error)
}

// ExportHandler serves downloadable schedule documents.
type ExportHandler struct {
	exports exportService
	enabled bool
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService, enabled bool) *ExportHandler {
	return &ExportHandler{exports: exports, enabled: enabled}
}

// Export godoc
// @Summary Export the event schedule
// @Tags Events
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Param date query string false "Exact day filter (YYYY-MM-DD)"
// @Param types query string false "Comma-separated event types"
// @Param search query string false "Search filter"
// @Success 200 {file} file
// @Router /events/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if !h.enabled {
		c.Status(http.StatusNotFound)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	data, contentType, filename, err := h.exports.Export(c.Request.Context(), listRequest(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
