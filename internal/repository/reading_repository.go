package repository

import (
	"context"
	"time"

	"remo-monitor/internal/models"

	"gorm.io/gorm"
)

// ReadingFilter selects rows from sensor_data. Zero values disable a constraint.
type ReadingFilter struct {
	DeviceID string
	Since    time.Time
	Limit    int
}

type ReadingRepository interface {
	// BatchCreate inserts all readings in one statement; nothing is written on failure.
	BatchCreate(ctx context.Context, readings []models.SensorReading) error
	Find(ctx context.Context, filter ReadingFilter) ([]models.SensorReading, error)
	GetLatestByDevice(ctx context.Context, deviceID string) (*models.SensorReading, error)
	Count(ctx context.Context) (int64, error)
}

type readingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{db: db}
}

func (r *readingRepository) BatchCreate(ctx context.Context, readings []models.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&readings).Error
}

func (r *readingRepository) Find(ctx context.Context, filter ReadingFilter) ([]models.SensorReading, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")

	if filter.DeviceID != "" {
		query = query.Where("device_id = ?", filter.DeviceID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	readings := make([]models.SensorReading, 0)
	err := query.Find(&readings).Error
	return readings, err
}

func (r *readingRepository) GetLatestByDevice(ctx context.Context, deviceID string) (*models.SensorReading, error) {
	var reading models.SensorReading
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC, id DESC").
		First(&reading).
		Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *readingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Count(&count).
		Error
	return count, err
}
