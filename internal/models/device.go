package models

import "time"

type MetricCode string

const (
	MetricTemperature MetricCode = "te"
	MetricHumidity    MetricCode = "hu"
	MetricIlluminance MetricCode = "il"
	MetricMovement    MetricCode = "mo"
)

// MetricCodes lists every code the upstream reports, in display order.
var MetricCodes = []MetricCode{MetricTemperature, MetricHumidity, MetricIlluminance, MetricMovement}

type SensorEvent struct {
	Val       float64   `json:"val"`
	CreatedAt time.Time `json:"created_at"`
}

// NewestEvents is the sparse set of latest values a device reports. Any code may be absent.
type NewestEvents struct {
	Te *SensorEvent `json:"te,omitempty"`
	Hu *SensorEvent `json:"hu,omitempty"`
	Il *SensorEvent `json:"il,omitempty"`
	Mo *SensorEvent `json:"mo,omitempty"`
}

func (e NewestEvents) Get(code MetricCode) *SensorEvent {
	switch code {
	case MetricTemperature:
		return e.Te
	case MetricHumidity:
		return e.Hu
	case MetricIlluminance:
		return e.Il
	case MetricMovement:
		return e.Mo
	}
	return nil
}

// Device is one entry of the Nature Remo /devices response. Only the fields below are decoded, so
// re-encoding it gives the field-stripped view served by /api/devices.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	SerialNumber    string       `json:"serial_number"`
	MacAddress      string       `json:"mac_address"`
	FirmwareVersion string       `json:"firmware_version"`
	NewestEvents    NewestEvents `json:"newest_events"`
}
