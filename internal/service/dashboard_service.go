package service

import (
	"context"
	"slices"
	"time"

	"remo-monitor/internal/models"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, q ReadingQuery) (*models.Dashboard, error)
}

type dashboardService struct {
	readings ReadingService
	now      func() time.Time
}

func NewDashboardService(readings ReadingService) DashboardService {
	return &dashboardService{
		readings: readings,
		now:      time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, q ReadingQuery) (*models.Dashboard, error) {
	q = q.Normalize()

	readings, err := s.readings.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Hours:       q.Hours,
		Limit:       q.Limit,
		Devices:     GroupByDevice(readings),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// GroupByDevice rebuilds devices from newest-first readings. The first row seen for a device is
// its freshest, so it supplies the name and current values. Series run oldest to newest.
func GroupByDevice(readings []models.SensorReading) []models.DeviceSummary {
	summaries := make([]models.DeviceSummary, 0)
	index := make(map[string]int)

	for _, reading := range readings {
		i, seen := index[reading.DeviceID]
		if !seen {
			summary := models.DeviceSummary{
				DeviceID:   reading.DeviceID,
				DeviceName: reading.DeviceName,
				UpdatedAt:  reading.CreatedAt,
				Current:    make(map[models.MetricCode]float64),
				Series:     make(map[models.MetricCode][]models.SeriesPoint),
			}
			for _, code := range models.MetricCodes {
				if v := reading.Value(code); v != nil {
					summary.Current[code] = *v
				}
			}
			i = len(summaries)
			index[reading.DeviceID] = i
			summaries = append(summaries, summary)
		}

		summary := &summaries[i]
		summary.Readings++
		for _, code := range models.MetricCodes {
			if v := reading.Value(code); v != nil {
				summary.Series[code] = append(summary.Series[code], models.SeriesPoint{Time: reading.CreatedAt, Value: *v})
			}
		}
	}

	for i := range summaries {
		for _, points := range summaries[i].Series {
			slices.Reverse(points)
		}
	}
	return summaries
}
