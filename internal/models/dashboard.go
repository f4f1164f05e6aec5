package models

import "time"

type SeriesPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// DeviceSummary is one device reconstructed from its stored readings.
type DeviceSummary struct {
	DeviceID   string                       `json:"device_id"`
	DeviceName string                       `json:"device_name"`
	UpdatedAt  time.Time                    `json:"updated_at"`
	Current    map[MetricCode]float64       `json:"current"`
	Series     map[MetricCode][]SeriesPoint `json:"series"`
	Readings   int                          `json:"readings"`
}

type Dashboard struct {
	Hours       int             `json:"hours"`
	Limit       int             `json:"limit"`
	Devices     []DeviceSummary `json:"devices"`
	GeneratedAt time.Time       `json:"generated_at"`
}
