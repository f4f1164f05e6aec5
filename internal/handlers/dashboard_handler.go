package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard groups the queried readings per device with current values and per-metric series.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), readingQuery(c))
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
