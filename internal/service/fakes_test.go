package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"remo-monitor/internal/models"
	"remo-monitor/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRemoClient struct {
	devices []models.Device
	raw     []json.RawMessage
	err     error
	calls   int
}

func (c *fakeRemoClient) GetDevices(context.Context) ([]models.Device, error) {
	c.calls++
	return c.devices, c.err
}

func (c *fakeRemoClient) GetRawDevices(context.Context) ([]json.RawMessage, error) {
	c.calls++
	return c.raw, c.err
}

type fakeCache struct {
	mu      sync.Mutex
	values  map[string]string
	setErr  error
	counter int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value
	return nil
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.values[key]
	if !ok {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = string(data)
	return nil
}

func (c *fakeCache) SetJSONIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	_, exists := c.values[key]
	c.mu.Unlock()
	if exists {
		return false, nil
	}
	return true, c.SetJSON(ctx, key, value, ttl)
}

func (c *fakeCache) Increment(context.Context, string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter, nil
}

type fakePublisher struct {
	published []models.SensorReading
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, readings []models.SensorReading) error {
	p.published = append(p.published, readings...)
	return p.err
}

func (p *fakePublisher) Close() {}

type failingRepo struct {
	repository.ReadingRepository
	err   error
	calls int
}

func (r *failingRepo) BatchCreate(context.Context, []models.SensorReading) error {
	r.calls++
	return r.err
}

func (r *failingRepo) Find(context.Context, repository.ReadingFilter) ([]models.SensorReading, error) {
	r.calls++
	return nil, r.err
}

func (r *failingRepo) GetLatestByDevice(context.Context, string) (*models.SensorReading, error) {
	r.calls++
	return nil, r.err
}

func (r *failingRepo) Count(context.Context) (int64, error) {
	r.calls++
	return 0, r.err
}

func setupRepo(t *testing.T) repository.ReadingRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.SensorReading{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewReadingRepository(db)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func livingRoom() models.Device {
	observed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Device{
		ID:   "dev1",
		Name: "Living Room",
		NewestEvents: models.NewestEvents{
			Te: &models.SensorEvent{Val: 23.5, CreatedAt: observed},
			Hu: &models.SensorEvent{Val: 45, CreatedAt: observed},
		},
	}
}

func bedroom() models.Device {
	observed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Device{
		ID:   "dev2",
		Name: "Bedroom",
		NewestEvents: models.NewestEvents{
			Te: &models.SensorEvent{Val: 19, CreatedAt: observed},
			Il: &models.SensorEvent{Val: 120, CreatedAt: observed},
			Mo: &models.SensorEvent{Val: 1, CreatedAt: observed},
		},
	}
}
