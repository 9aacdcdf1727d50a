package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/schedule"
	appErrors "github.com/campuspulse/campus-events-api/pkg/errors"
	"github.com/campuspulse/campus-events-api/pkg/response"
)

const defaultWindowSize = 10

// DatesHandler serves the rolling strip of selectable days.
type DatesHandler struct {
	now func() time.Time
}

// NewDatesHandler constructs DatesHandler.
func NewDatesHandler() *DatesHandler {
	return &DatesHandler{now: time.Now}
}

// Window godoc
// @Summary Rolling date window
// @Tags Dates
// @Produce json
// @Param anchor query string false "Window start (YYYY-MM-DD); clamped to today"
// @Param count query int false "Number of days (default 10)"
// @Success 200 {object} response.Envelope
// @Router /dates [get]
func (h *DatesHandler) Window(c *gin.Context) {
	now := h.now()
	anchor := now
	if raw := c.Query("anchor"); raw != "" {
		parsed, err := time.ParseInLocation(schedule.DateLayout, raw, now.Location())
		if err != nil {
			response.Error(c, appErrors.Validation("anchor", "anchor must be formatted YYYY-MM-DD"))
			return
		}
		anchor = parsed
	}

	count := defaultWindowSize
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 60 {
			response.Error(c, appErrors.Validation("count", "count must be between 1 and 60"))
			return
		}
		count = parsed
	}

	days := schedule.Window(anchor, count, now)
	out := dto.DateWindowResponse{Dates: make([]string, len(days))}
	for i, d := range days {
		out.Dates[i] = d.Format(schedule.DateLayout)
	}
	response.JSON(c, http.StatusOK, out, nil)
}
