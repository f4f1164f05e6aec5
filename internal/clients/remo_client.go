package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remo-monitor/internal/models"
)

type RemoClient interface {
	// GetDevices returns the parsed /devices list. An empty list is not an error.
	GetDevices(ctx context.Context) ([]models.Device, error)
	// GetRawDevices returns the /devices entries exactly as the upstream sent them.
	GetRawDevices(ctx context.Context) ([]json.RawMessage, error)
}

type remoClient struct {
	accessToken string
	endpoint    string
	httpClient  *http.Client
}

type RemoConfig struct {
	AccessToken string
	Endpoint    string
	Timeout     time.Duration
}

func NewRemoClient(config RemoConfig) RemoClient {
	return &remoClient{
		accessToken: config.AccessToken,
		endpoint:    config.Endpoint,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *remoClient) GetDevices(ctx context.Context) ([]models.Device, error) {
	body, err := c.fetchDevices(ctx)
	if err != nil {
		return nil, err
	}

	var devices []models.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	return devices, nil
}

func (c *remoClient) GetRawDevices(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.fetchDevices(ctx)
	if err != nil {
		return nil, err
	}

	var devices []json.RawMessage
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	return devices, nil
}

func (c *remoClient) fetchDevices(ctx context.Context) ([]byte, error) {
	if c.accessToken == "" {
		return nil, &models.ConfigError{
			Setting: "NATURE_REMO_ACCESS_TOKEN",
			Message: "Nature Remo access token is not set. Please set NATURE_REMO_ACCESS_TOKEN in your environment variables.",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/devices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Remo-Monitor/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return body, nil
}
