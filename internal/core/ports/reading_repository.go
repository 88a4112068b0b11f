package ports

import (
	"context"
	"time"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// ReadingRepository defines persistence operations for readings.
type ReadingRepository interface {
	Insert(ctx context.Context, r *domain.Reading) error
	FindByID(ctx context.Context, id int64) (*domain.Reading, error)
	FindAll(ctx context.Context) ([]*domain.Reading, error)
	// FindByDevice returns the device's readings, optionally restricted to
	// the calendar day starting at *day (UTC).
	FindByDevice(ctx context.Context, deviceID int64, day *time.Time) ([]*domain.Reading, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Reading, error)
	CountByTower(ctx context.Context, towerID int64) (int64, error)
	Update(ctx context.Context, r *domain.Reading) error
	Delete(ctx context.Context, id int64) error
}
