package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"remo-monitor/internal/models"
	"remo-monitor/internal/repository"
)

const (
	DefaultHours = 24
	DefaultLimit = 100

	// MaxHours is the widest window whose duration still fits in a time.Duration.
	MaxHours = int(math.MaxInt64 / int64(time.Hour))
)

// ErrReadingNotFound is returned when a device has no stored readings.
var ErrReadingNotFound = errors.New("no readings found for device")

type ReadingQuery struct {
	DeviceID string
	Hours    int
	Limit    int
}

// Normalize replaces missing or non-positive values with the defaults and caps Hours at MaxHours.
func (q ReadingQuery) Normalize() ReadingQuery {
	if q.Hours <= 0 {
		q.Hours = DefaultHours
	}
	if q.Hours > MaxHours {
		q.Hours = MaxHours
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

type ReadingService interface {
	// Query returns readings newer than now minus q.Hours, newest first, at most q.Limit rows.
	Query(ctx context.Context, q ReadingQuery) ([]models.SensorReading, error)
	GetLatest(ctx context.Context, deviceID string) (*models.SensorReading, error)
	Count(ctx context.Context) (int64, error)
}

type readingService struct {
	repo      repository.ReadingRepository
	cacheRepo repository.CacheRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewReadingService(repo repository.ReadingRepository, cacheRepo repository.CacheRepository, logger *slog.Logger) ReadingService {
	return &readingService{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *readingService) Query(ctx context.Context, q ReadingQuery) ([]models.SensorReading, error) {
	q = q.Normalize()
	since := s.now().UTC().Add(-time.Duration(q.Hours) * time.Hour)

	readings, err := s.repo.Find(ctx, repository.ReadingFilter{
		DeviceID: q.DeviceID,
		Since:    since,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, storeError("fetch data from store", err)
	}
	if readings == nil {
		readings = []models.SensorReading{}
	}
	return readings, nil
}

func (s *readingService) GetLatest(ctx context.Context, deviceID string) (*models.SensorReading, error) {
	var cached models.SensorReading
	err := s.cacheRepo.GetJSON(ctx, latestCacheKey(deviceID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("failed to read latest reading from cache", "device_id", deviceID, "error", err)
	}

	reading, err := s.repo.GetLatestByDevice(ctx, deviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, storeError("fetch data from store", err)
	}

	// An ingest may have cached a newer reading since the store read.
	if _, err := s.cacheRepo.SetJSONIfAbsent(ctx, latestCacheKey(deviceID), reading, latestCacheTTL); err != nil {
		s.logger.Warn("failed to cache latest reading", "device_id", deviceID, "error", err)
	}
	return reading, nil
}

func (s *readingService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storeError("count stored readings", err)
	}
	return count, nil
}
