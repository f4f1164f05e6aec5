package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/models"
	"remo-monitor/internal/service"
)

const noDevicesMessage = "No devices found. Please check your Nature Remo setup."

type DeviceHandler struct {
	service service.DeviceService
}

func NewDeviceHandler(service service.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// GetDevices returns device metadata with the latest values, fetched live from Nature Remo.
func (h *DeviceHandler) GetDevices(c *gin.Context) {
	devices, err := h.service.ListDevices(c.Request.Context())
	if errors.Is(err, models.ErrNoDevices) {
		respondError(c, http.StatusNotFound, noDevicesMessage)
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, devices)
}

// GetTemperature returns the upstream device array untouched.
func (h *DeviceHandler) GetTemperature(c *gin.Context) {
	devices, err := h.service.RawDevices(c.Request.Context())
	if errors.Is(err, models.ErrNoDevices) {
		respondError(c, http.StatusNotFound, noDevicesMessage)
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, devices)
}
