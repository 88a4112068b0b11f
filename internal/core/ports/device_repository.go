package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// DeviceRepository defines persistence operations for devices.
type DeviceRepository interface {
	Insert(ctx context.Context, d *domain.Device) error
	FindByID(ctx context.Context, id int64) (*domain.Device, error)
	FindAll(ctx context.Context) ([]*domain.Device, error)
	FindByUser(ctx context.Context, userID int64) ([]*domain.Device, error)
	Update(ctx context.Context, d *domain.Device) error
	// Delete removes the device and all its readings in one transaction.
	Delete(ctx context.Context, id int64) (CascadeResult, error)
}
