package ports

import (
	"context"
	"time"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CreateDeviceInput carries all data needed to register a device.
type CreateDeviceInput struct {
	UserID       int64
	Manufacturer string
	Model        string
	SerialNo     string
	OSVersion    string
}

// DevicePatch is a sparse update; the owning user is immutable.
type DevicePatch struct {
	Manufacturer *string
	Model        *string
	SerialNo     *string
	OSVersion    *string
}

func (p DevicePatch) Empty() bool {
	return p.Manufacturer == nil && p.Model == nil && p.SerialNo == nil && p.OSVersion == nil
}

// DeviceService defines the resource operations for devices.
type DeviceService interface {
	Create(ctx context.Context, caller authz.Caller, in CreateDeviceInput) (*domain.Device, error)
	Get(ctx context.Context, caller authz.Caller, id int64) (*domain.Device, error)
	List(ctx context.Context, caller authz.Caller) ([]*domain.Device, error)
	Patch(ctx context.Context, caller authz.Caller, id int64, patch DevicePatch) (*domain.Device, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error
	// ListReadings returns the device's readings, optionally limited to one
	// UTC calendar day; allowed for the owner or an admin.
	ListReadings(ctx context.Context, caller authz.Caller, deviceID int64, day *time.Time) ([]*domain.Reading, error)
}
