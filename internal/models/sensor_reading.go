package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SensorReading is one append-only row of the sensor_data table.
type SensorReading struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	DeviceID    string         `gorm:"type:varchar(64);not null;index:idx_sensor_data_device_created,priority:1" json:"device_id"`
	DeviceName  string         `gorm:"type:varchar(255);not null" json:"device_name"`
	Temperature *float64       `json:"temperature"`
	Humidity    *float64       `json:"humidity"`
	Illuminance *float64       `json:"illuminance"`
	Movement    *float64       `json:"movement"`
	Events      datatypes.JSON `gorm:"type:jsonb" json:"events,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index;index:idx_sensor_data_device_created,priority:2" json:"created_at"`
}

func (SensorReading) TableName() string {
	return "sensor_data"
}

func (r SensorReading) Value(code MetricCode) *float64 {
	switch code {
	case MetricTemperature:
		return r.Temperature
	case MetricHumidity:
		return r.Humidity
	case MetricIlluminance:
		return r.Illuminance
	case MetricMovement:
		return r.Movement
	}
	return nil
}

// NewSensorReading flattens a device snapshot into a row stamped with ingestedAt.
func NewSensorReading(d Device, ingestedAt time.Time) SensorReading {
	reading := SensorReading{
		DeviceID:   d.ID,
		DeviceName: d.Name,
		CreatedAt:  ingestedAt,
	}
	reading.Temperature = eventValue(d.NewestEvents.Te)
	reading.Humidity = eventValue(d.NewestEvents.Hu)
	reading.Illuminance = eventValue(d.NewestEvents.Il)
	reading.Movement = eventValue(d.NewestEvents.Mo)

	if payload, err := json.Marshal(d.NewestEvents); err == nil {
		reading.Events = payload
	}
	return reading
}

func eventValue(e *SensorEvent) *float64 {
	if e == nil {
		return nil
	}
	v := e.Val
	return &v
}
