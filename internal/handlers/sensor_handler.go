package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/models"
	"remo-monitor/internal/service"
)

type SensorHandler struct {
	ingestService  service.IngestService
	readingService service.ReadingService
	exportService  service.ExportService
}

func NewSensorHandler(
	ingestService service.IngestService,
	readingService service.ReadingService,
	exportService service.ExportService,
) *SensorHandler {
	return &SensorHandler{
		ingestService:  ingestService,
		readingService: readingService,
		exportService:  exportService,
	}
}

// GetSensorData serves GET /api/get-sensor-data?device_id=&hours=24&limit=100.
func (h *SensorHandler) GetSensorData(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		methodNotAllowed(c)
		return
	}

	readings, err := h.readingService.Query(c.Request.Context(), readingQuery(c))
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

// SaveSensorData serves POST /api/save-sensor-data.
func (h *SensorHandler) SaveSensorData(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		methodNotAllowed(c)
		return
	}

	count, err := h.ingestService.SaveSnapshot(c.Request.Context())
	if errors.Is(err, models.ErrNoDevices) {
		respondError(c, http.StatusNotFound, "No devices found")
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully saved data for %d device(s)", count),
	})
}

func (h *SensorHandler) GetLatest(c *gin.Context) {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		respondError(c, http.StatusBadRequest, "device_id is required")
		return
	}

	reading, err := h.readingService.GetLatest(c.Request.Context(), deviceID)
	if errors.Is(err, service.ErrReadingNotFound) {
		respondError(c, http.StatusNotFound, "No readings found for device "+deviceID)
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

func (h *SensorHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	export, err := h.exportService.ExportReadings(c.Request.Context(), format, readingQuery(c))
	if errors.Is(err, service.ErrUnsupportedFormat) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
