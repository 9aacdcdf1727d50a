package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/middleware"
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/service"
	appErrors "github.com/campuspulse/campus-events-api/pkg/errors"
	"github.com/campuspulse/campus-events-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, req dto.ListEventsRequest) ([]dto.EventView, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.EventView, error)
	Create(ctx context.Context, req dto.CreateEventRequest, image *service.ImageUpload) (*dto.EventView, error)
	Update(ctx context.Context, id, token string, req dto.UpdateEventRequest, image *service.ImageUpload) (*dto.EventView, error)
	VerifyPassword(ctx context.Context, id, password string) (*dto.EditTokenResponse, error)
}

// EventHandler exposes the event browsing and submission endpoints.
type EventHandler struct {
	events         eventService
	metrics        *service.MetricsService
	maxUploadBytes int64
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events eventService, metrics *service.MetricsService, maxUploadBytes int64) *EventHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 8 << 20
	}
	return &EventHandler{events: events, metrics: metrics, maxUploadBytes: maxUploadBytes}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param date query string false "Exact day filter (YYYY-MM-DD)"
// @Param types query string false "Comma-separated event types"
// @Param all_types query bool false "Ignore the type filter"
// @Param search query string false "Case-insensitive search over title, description and location"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	req := listRequest(c)
	views, pagination, err := h.events.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// Get godoc
// @Summary Get event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	view, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Submit a new event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var req dto.CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	image, err := h.imageUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.events.Create(c.Request.Context(), req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEventCreated()
	if image != nil {
		h.metrics.RecordImageUpload()
	}
	response.Created(c, view)
}

// Update godoc
// @Summary Edit an event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var req dto.UpdateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	image, err := h.imageUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.events.Update(c.Request.Context(), c.Param("id"), middleware.EditToken(c), req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEventUpdated()
	if image != nil {
		h.metrics.RecordImageUpload()
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// VerifyPassword godoc
// @Summary Exchange an event password for an edit token
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.VerifyPasswordRequest true "Password payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/verify-password [post]
func (h *EventHandler) VerifyPassword(c *gin.Context) {
	var req dto.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	token, err := h.events.VerifyPassword(c.Request.Context(), c.Param("id"), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token, nil)
}

// imageUpload pulls the optional "image" multipart part. JSON requests have
// no multipart form and simply yield no upload.
func (h *EventHandler) imageUpload(c *gin.Context) (*service.ImageUpload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTooLarge.Code, appErrors.ErrTooLarge.Status, "uploaded image exceeds the size limit")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded image")
	}
	// The part is backed by the request's multipart form; the server
	// releases it when the request finishes.
	return &service.ImageUpload{Filename: fileHeader.Filename, Reader: file}, nil
}

func listRequest(c *gin.Context) dto.ListEventsRequest {
	req := dto.ListEventsRequest{
		Date:     strings.TrimSpace(c.Query("date")),
		Search:   strings.TrimSpace(c.Query("search")),
		AllTypes: c.DefaultQuery("all_types", "true") == "true",
	}
	if raw := strings.TrimSpace(c.Query("types")); raw != "" {
		req.AllTypes = false
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				req.Types = append(req.Types, trimmed)
			}
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		req.PageSize = size
	}
	return req
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
