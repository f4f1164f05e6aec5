package repository

import (
	"context"

	"remo-monitor/internal/models"
)

// unavailableReadingRepository stands in for the store when it is not configured.
// Every call fails with the same error so store-touching endpoints report it per request.
type unavailableReadingRepository struct {
	err error
}

func NewUnavailableReadingRepository(err error) ReadingRepository {
	return &unavailableReadingRepository{err: err}
}

func (r *unavailableReadingRepository) BatchCreate(context.Context, []models.SensorReading) error {
	return r.err
}

func (r *unavailableReadingRepository) Find(context.Context, ReadingFilter) ([]models.SensorReading, error) {
	return nil, r.err
}

func (r *unavailableReadingRepository) GetLatestByDevice(context.Context, string) (*models.SensorReading, error) {
	return nil, r.err
}

func (r *unavailableReadingRepository) Count(context.Context) (int64, error) {
	return 0, r.err
}
