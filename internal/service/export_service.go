package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"remo-monitor/internal/models"
	"remo-monitor/internal/utils"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported format, use 'csv' or 'xlsx'")

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService interface {
	ExportReadings(ctx context.Context, format string, q ReadingQuery) (*Export, error)
}

type exportService struct {
	readings ReadingService
	now      func() time.Time
}

func NewExportService(readings ReadingService) ExportService {
	return &exportService{
		readings: readings,
		now:      time.Now,
	}
}

func (s *exportService) ExportReadings(ctx context.Context, format string, q ReadingQuery) (*Export, error) {
	if format != "csv" && format != "xlsx" && format != "excel" {
		return nil, ErrUnsupportedFormat
	}

	readings, err := s.readings.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	timestamp := s.now().UTC().Format("20060102_150405")
	var buf bytes.Buffer

	switch format {
	case "csv":
		if err := writeCSV(&buf, readings); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		return &Export{
			Filename:    fmt.Sprintf("sensor_data_%s.csv", timestamp),
			ContentType: "text/csv",
			Data:        buf.Bytes(),
		}, nil
	default:
		if err := utils.WriteReadingsExcel(&buf, readings); err != nil {
			return nil, fmt.Errorf("failed to create Excel file: %w", err)
		}
		return &Export{
			Filename:    fmt.Sprintf("sensor_data_%s.xlsx", timestamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	}
}

func writeCSV(buf *bytes.Buffer, readings []models.SensorReading) error {
	writer := csv.NewWriter(buf)

	header := []string{"created_at", "device_id", "device_name", "temperature", "humidity", "illuminance", "movement"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, reading := range readings {
		row := []string{
			reading.CreatedAt.UTC().Format(time.RFC3339),
			reading.DeviceID,
			reading.DeviceName,
		}
		for _, code := range models.MetricCodes {
			row = append(row, formatOptional(reading.Value(code)))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
