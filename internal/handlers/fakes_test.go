package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/models"
	"remo-monitor/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReadingService struct {
	readings  []models.SensorReading
	latest    *models.SensorReading
	count     int64
	err       error
	lastQuery service.ReadingQuery
	calls     int
}

func (s *fakeReadingService) Query(_ context.Context, q service.ReadingQuery) ([]models.SensorReading, error) {
	s.calls++
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	if s.readings == nil {
		return []models.SensorReading{}, nil
	}
	return s.readings, nil
}

func (s *fakeReadingService) GetLatest(context.Context, string) (*models.SensorReading, error) {
	s.calls++
	return s.latest, s.err
}

func (s *fakeReadingService) Count(context.Context) (int64, error) {
	s.calls++
	return s.count, s.err
}

type fakeIngestService struct {
	count int
	err   error
	calls int
}

func (s *fakeIngestService) SaveSnapshot(context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

func (s *fakeIngestService) Ingest(_ context.Context, devices []models.Device) (int, error) {
	s.calls++
	return len(devices), s.err
}

type fakeDeviceService struct {
	devices []models.Device
	raw     []json.RawMessage
	err     error
}

func (s *fakeDeviceService) ListDevices(context.Context) ([]models.Device, error) {
	return s.devices, s.err
}

func (s *fakeDeviceService) RawDevices(context.Context) ([]json.RawMessage, error) {
	return s.raw, s.err
}

type fakeExportService struct {
	export *service.Export
	err    error
}

func (s *fakeExportService) ExportReadings(context.Context, string, service.ReadingQuery) (*service.Export, error) {
	return s.export, s.err
}

type fakeDashboardService struct {
	dashboard *models.Dashboard
	err       error
	lastQuery service.ReadingQuery
}

func (s *fakeDashboardService) GetDashboard(_ context.Context, q service.ReadingQuery) (*models.Dashboard, error) {
	s.lastQuery = q
	return s.dashboard, s.err
}

type fakeCache struct {
	values map[string]string
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) { return c.values[key], nil }
func (c *fakeCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (c *fakeCache) GetJSON(context.Context, string, interface{}) error { return nil }
func (c *fakeCache) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *fakeCache) SetJSONIfAbsent(context.Context, string, interface{}, time.Duration) (bool, error) {
	return false, nil
}
func (c *fakeCache) Increment(context.Context, string) (int64, error) { return 0, nil }

func perform(t *testing.T, r http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Message
}
