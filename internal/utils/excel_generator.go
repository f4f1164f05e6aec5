package utils

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"remo-monitor/internal/models"
)

const readingsSheet = "Readings"

var readingHeaders = []string{"Created At", "Device ID", "Device Name", "Temperature (°C)", "Humidity (%)", "Illuminance", "Movement"}

// metric columns start at D
var metricColumns = map[models.MetricCode]string{
	models.MetricTemperature: "D",
	models.MetricHumidity:    "E",
	models.MetricIlluminance: "F",
	models.MetricMovement:    "G",
}

// WriteReadingsExcel writes readings as an xlsx workbook with one line chart per reported metric.
func WriteReadingsExcel(w io.Writer, readings []models.SensorReading) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", readingsSheet); err != nil {
		return err
	}

	for i, header := range readingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(readingsSheet, cell, header); err != nil {
			return err
		}
	}

	present := make(map[models.MetricCode]bool)
	for rowIdx, reading := range readings {
		row := rowIdx + 2

		values := []interface{}{
			reading.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			reading.DeviceID,
			reading.DeviceName,
		}
		for _, code := range models.MetricCodes {
			if v := reading.Value(code); v != nil {
				values = append(values, *v)
				present[code] = true
			} else {
				values = append(values, nil)
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(readingsSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(readingsSheet, "A", "G", 20); err != nil {
		return err
	}

	if len(readings) > 1 {
		if err := addMetricCharts(f, len(readings), present); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func addMetricCharts(f *excelize.File, rows int, present map[models.MetricCode]bool) error {
	last := rows + 1
	anchorRow := 2

	for i, code := range models.MetricCodes {
		if !present[code] {
			continue
		}
		col := metricColumns[code]
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{
				{
					Name:       fmt.Sprintf("%s!$%s$1", readingsSheet, col),
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", readingsSheet, last),
					Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", readingsSheet, col, col, last),
				},
			},
			Title: []excelize.RichTextRun{
				{Text: readingHeaders[3+i]},
			},
			XAxis: excelize.ChartAxis{
				MajorGridLines: true,
			},
			YAxis: excelize.ChartAxis{
				MajorGridLines: true,
			},
			Dimension: excelize.ChartDimension{
				Width:  600,
				Height: 300,
			},
		}

		if err := f.AddChart(readingsSheet, fmt.Sprintf("I%d", anchorRow), chart); err != nil {
			return err
		}
		anchorRow += 16
	}
	return nil
}
