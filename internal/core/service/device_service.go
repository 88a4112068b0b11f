package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// DeviceService implements the device resource operations.
type DeviceService struct {
	devices  ports.DeviceRepository
	readings ports.ReadingRepository
	resolver ownerResolver
	log      zerolog.Logger
}

func NewDeviceService(devices ports.DeviceRepository, readings ports.ReadingRepository, users ports.UserRepository, log zerolog.Logger) *DeviceService {
	return &DeviceService{
		devices:  devices,
		readings: readings,
		resolver: ownerResolver{users: users, devices: devices},
		log:      log,
	}
}

func (s *DeviceService) Create(ctx context.Context, caller authz.Caller, in ports.CreateDeviceInput) (*domain.Device, error) {
	if in.UserID == 0 || in.Manufacturer == "" || in.Model == "" || in.SerialNo == "" || in.OSVersion == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.resolver.users.FindByID(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrReferenceNotFound, in.UserID)
		}
		return nil, err
	}

	// The new device's implied owner is the referenced user.
	if err := authz.Authorize(caller, authz.ActionWrite, authz.Target{OwnerID: in.UserID}); err != nil {
		return nil, err
	}

	device := &domain.Device{
		UserID:       in.UserID,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		SerialNo:     in.SerialNo,
		OSVersion:    in.OSVersion,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.devices.Insert(ctx, device); err != nil {
		return nil, err
	}

	s.log.Info().Int64("device_id", device.ID).Int64("user_id", device.UserID).Msg("device registered")
	return device, nil
}

func (s *DeviceService) Get(ctx context.Context, caller authz.Caller, id int64) (*domain.Device, error) {
	device, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = authorizeOwned(ctx, caller, authz.ActionRead, func(ctx context.Context) (int64, error) {
		return s.resolver.deviceOwner(ctx, device)
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (s *DeviceService) List(ctx context.Context, caller authz.Caller) ([]*domain.Device, error) {
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{Collection: true}); err != nil {
		return nil, err
	}
	return s.devices.FindAll(ctx)
}

func (s *DeviceService) Patch(ctx context.Context, caller authz.Caller, id int64, patch ports.DevicePatch) (*domain.Device, error) {
	if patch.Empty() {
		return nil, domain.ErrMissingFields
	}

	device, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = authorizeOwned(ctx, caller, authz.ActionWrite, func(ctx context.Context) (int64, error) {
		return s.resolver.deviceOwner(ctx, device)
	})
	if err != nil {
		return nil, err
	}

	if patch.Manufacturer != nil {
		device.Manufacturer = *patch.Manufacturer
	}
	if patch.Model != nil {
		device.Model = *patch.Model
	}
	if patch.SerialNo != nil {
		device.SerialNo = *patch.SerialNo
	}
	if patch.OSVersion != nil {
		device.OSVersion = *patch.OSVersion
	}
	device.UpdatedAt = time.Now().UTC()

	if err := s.devices.Update(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	device, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return err
	}
	err = authorizeOwned(ctx, caller, authz.ActionDelete, func(ctx context.Context) (int64, error) {
		return s.resolver.deviceOwner(ctx, device)
	})
	if err != nil {
		return err
	}

	cascade, err := s.devices.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("device_id", id).
		Int64("readings_deleted", cascade.Readings).
		Msg("device deleted")
	return nil
}

func (s *DeviceService) ListReadings(ctx context.Context, caller authz.Caller, deviceID int64, day *time.Time) ([]*domain.Reading, error) {
	device, err := s.devices.FindByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	err = authorizeOwned(ctx, caller, authz.ActionRead, func(ctx context.Context) (int64, error) {
		return s.resolver.deviceOwner(ctx, device)
	})
	if err != nil {
		return nil, err
	}
	return s.readings.FindByDevice(ctx, deviceID, day)
}
