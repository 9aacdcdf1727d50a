package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/pkg/config"
	"github.com/campuspulse/campus-events-api/pkg/response"
)

// MapHandler hands the mapping-widget parameters to the client.
type MapHandler struct {
	cfg config.MapConfig
}

// NewMapHandler constructs MapHandler.
func NewMapHandler(cfg config.MapConfig) *MapHandler {
	return &MapHandler{cfg: cfg}
}

// Config godoc
// @Summary Map widget configuration
// @Tags Map
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /map/config [get]
func (h *MapHandler) Config(c *gin.Context) {
	if h.cfg.AccessToken == "" {
		// No token configured: the client renders the list without a map.
		response.JSON(c, http.StatusOK, dto.MapConfigResponse{Enabled: false}, nil)
		return
	}
	response.JSON(c, http.StatusOK, dto.MapConfigResponse{
		Enabled:     true,
		AccessToken: h.cfg.AccessToken,
		StyleURL:    h.cfg.StyleURL,
		CenterLat:   h.cfg.CenterLat,
		CenterLon:   h.cfg.CenterLon,
		Zoom:        h.cfg.Zoom,
		Pitch:       h.cfg.Pitch,
		Bearing:     h.cfg.Bearing,
	}, nil)
}
