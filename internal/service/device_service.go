package service

import (
	"context"
	"encoding/json"

	"remo-monitor/internal/clients"
	"remo-monitor/internal/models"
)

// DeviceService reads devices straight from the upstream on every call. It never consults the store,
// so names and values here can differ from historical readings.
type DeviceService interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	RawDevices(ctx context.Context) ([]json.RawMessage, error)
}

type deviceService struct {
	client clients.RemoClient
}

func NewDeviceService(client clients.RemoClient) DeviceService {
	return &deviceService{client: client}
}

func (s *deviceService) ListDevices(ctx context.Context) ([]models.Device, error) {
	devices, err := s.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, models.ErrNoDevices
	}

	return devices, nil
}

func (s *deviceService) RawDevices(ctx context.Context) ([]json.RawMessage, error) {
	devices, err := s.client.GetRawDevices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, models.ErrNoDevices
	}
	return devices, nil
}
