package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"remo-monitor/internal/clients"
	"remo-monitor/internal/models"
	"remo-monitor/internal/publisher"
	"remo-monitor/internal/repository"
)

const (
	IngestBatchesKey = "ingest:batches"
	IngestLastKey    = "ingest:last_at"
	latestCacheTTL   = 24 * time.Hour
)

func latestCacheKey(deviceID string) string {
	return "reading:last:" + deviceID
}

type IngestService interface {
	// SaveSnapshot fetches the current device list and stores one reading per device.
	SaveSnapshot(ctx context.Context) (int, error)
	// Ingest stores one reading per device, all stamped with the same ingestion time.
	Ingest(ctx context.Context, devices []models.Device) (int, error)
}

type ingestService struct {
	client    clients.RemoClient
	repo      repository.ReadingRepository
	cacheRepo repository.CacheRepository
	publisher publisher.ReadingPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewIngestService(
	client clients.RemoClient,
	repo repository.ReadingRepository,
	cacheRepo repository.CacheRepository,
	pub publisher.ReadingPublisher,
	logger *slog.Logger,
) IngestService {
	return &ingestService{
		client:    client,
		repo:      repo,
		cacheRepo: cacheRepo,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ingestService) SaveSnapshot(ctx context.Context) (int, error) {
	devices, err := s.client.GetDevices(ctx)
	if err != nil {
		return 0, err
	}
	if len(devices) == 0 {
		return 0, models.ErrNoDevices
	}
	return s.Ingest(ctx, devices)
}

func (s *ingestService) Ingest(ctx context.Context, devices []models.Device) (int, error) {
	if len(devices) == 0 {
		return 0, models.ErrNoDevices
	}

	batchID := uuid.New()
	ingestedAt := s.now().UTC().Truncate(time.Microsecond)

	readings := make([]models.SensorReading, 0, len(devices))
	for _, device := range devices {
		readings = append(readings, models.NewSensorReading(device, ingestedAt))
	}

	if err := s.repo.BatchCreate(ctx, readings); err != nil {
		return 0, storeError("save data to store", err)
	}

	s.logger.Info("sensor readings saved",
		"batch_id", batchID.String(),
		"devices", len(readings),
		"ingested_at", ingestedAt.Format(time.RFC3339),
	)

	s.afterIngest(ctx, readings, ingestedAt)
	return len(readings), nil
}

// afterIngest updates the hot cache and fans out readings. Failures here never fail the batch.
func (s *ingestService) afterIngest(ctx context.Context, readings []models.SensorReading, ingestedAt time.Time) {
	for _, reading := range readings {
		if err := s.cacheRepo.SetJSON(ctx, latestCacheKey(reading.DeviceID), reading, latestCacheTTL); err != nil {
			s.logger.Warn("failed to cache latest reading", "device_id", reading.DeviceID, "error", err)
		}
	}
	if _, err := s.cacheRepo.Increment(ctx, IngestBatchesKey); err != nil {
		s.logger.Warn("failed to bump ingest counter", "error", err)
	}
	if err := s.cacheRepo.Set(ctx, IngestLastKey, ingestedAt.Format(time.RFC3339Nano), 0); err != nil {
		s.logger.Warn("failed to record ingest time", "error", err)
	}

	if err := s.publisher.Publish(ctx, readings); err != nil {
		s.logger.Warn("failed to publish readings", "error", err)
	}
}

// storeError wraps persistence failures, leaving configuration errors untouched.
func storeError(op string, err error) error {
	var cfgErr *models.ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}
	return &models.StoreError{Op: op, Err: err}
}
