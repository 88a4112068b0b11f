package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// IngestDedup is the fast-path idempotency store consulted before hitting the
// entity store on keyed reading uploads.
type IngestDedup interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// ReadingService implements the reading resource operations.
type ReadingService struct {
	readings ports.ReadingRepository
	towers   ports.CellTowerRepository
	resolver ownerResolver
	dedup    IngestDedup
	log      zerolog.Logger
}

func NewReadingService(
	readings ports.ReadingRepository,
	devices ports.DeviceRepository,
	users ports.UserRepository,
	towers ports.CellTowerRepository,
	dedup IngestDedup,
	log zerolog.Logger,
) *ReadingService {
	return &ReadingService{
		readings: readings,
		towers:   towers,
		resolver: ownerResolver{users: users, devices: devices},
		dedup:    dedup,
		log:      log,
	}
}

func (s *ReadingService) Create(ctx context.Context, caller authz.Caller, in ports.CreateReadingInput) (*ports.ReadingResult, error) {
	if in.DeviceID == 0 || in.CellTowerID == 0 || in.Latitude == "" || in.Longitude == "" ||
		in.SignalType == "" || in.SignalValue == nil {
		return nil, domain.ErrMissingFields
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	// Mobile clients retry uploads on flaky links; a matching key means the
	// first attempt already landed.
	if in.IdempotencyKey != "" {
		if existing, ok := s.replay(ctx, caller, in.IdempotencyKey); ok {
			return &ports.ReadingResult{Reading: existing, AlreadyExisted: true}, nil
		}
	}

	device, err := s.resolver.devices.FindByID(ctx, in.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: device %d", domain.ErrReferenceNotFound, in.DeviceID)
		}
		return nil, err
	}
	if _, err := s.towers.FindByID(ctx, in.CellTowerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: celltower %d", domain.ErrReferenceNotFound, in.CellTowerID)
		}
		return nil, err
	}

	// The new reading's implied owner is the user at the end of the chain
	// through the referenced device.
	err = authorizeOwned(ctx, caller, authz.ActionWrite, func(ctx context.Context) (int64, error) {
		return s.resolver.deviceOwner(ctx, device)
	})
	if err != nil {
		return nil, err
	}

	reading := &domain.Reading{
		DeviceID:       in.DeviceID,
		CellTowerID:    in.CellTowerID,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		SignalType:     in.SignalType,
		SignalValue:    *in.SignalValue,
		IdempotencyKey: in.IdempotencyKey,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.readings.Insert(ctx, reading); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if err := s.dedup.Mark(ctx, in.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to set dedup key")
		}
	}

	s.log.Debug().
		Int64("reading_id", reading.ID).
		Int64("device_id", reading.DeviceID).
		Str("signal_type", reading.SignalType).
		Msg("reading recorded")
	return &ports.ReadingResult{Reading: reading}, nil
}

// replay returns the previously created reading for key, if one exists and
// the caller may read it. Dedup failures degrade to the store lookup.
func (s *ReadingService) replay(ctx context.Context, caller authz.Caller, key string) (*domain.Reading, bool) {
	if seen, err := s.dedup.Seen(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("dedup check failed, falling back to store")
	} else if !seen {
		return nil, false
	}

	existing, err := s.readings.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, false
	}
	err = authorizeOwned(ctx, caller, authz.ActionRead, func(ctx context.Context) (int64, error) {
		return s.resolver.readingOwner(ctx, existing)
	})
	if err != nil {
		return nil, false
	}
	s.log.Info().Str("idempotency_key", key).Int64("reading_id", existing.ID).Msg("idempotent replay")
	return existing, true
}

func (s *ReadingService) Get(ctx context.Context, caller authz.Caller, id int64) (*domain.Reading, error) {
	reading, err := s.readings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = authorizeOwned(ctx, caller, authz.ActionRead, func(ctx context.Context) (int64, error) {
		return s.resolver.readingOwner(ctx, reading)
	})
	if err != nil {
		return nil, err
	}
	return reading, nil
}

func (s *ReadingService) List(ctx context.Context, caller authz.Caller) ([]*domain.Reading, error) {
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{Collection: true}); err != nil {
		return nil, err
	}
	return s.readings.FindAll(ctx)
}

func (s *ReadingService) Patch(ctx context.Context, caller authz.Caller, id int64, patch ports.ReadingPatch) (*domain.Reading, error) {
	if patch.Empty() {
		return nil, domain.ErrMissingFields
	}

	reading, err := s.readings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = authorizeOwned(ctx, caller, authz.ActionWrite, func(ctx context.Context) (int64, error) {
		return s.resolver.readingOwner(ctx, reading)
	})
	if err != nil {
		return nil, err
	}

	if patch.Latitude != nil {
		if err := validateDecimal("latitude", *patch.Latitude); err != nil {
			return nil, err
		}
		reading.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		if err := validateDecimal("longitude", *patch.Longitude); err != nil {
			return nil, err
		}
		reading.Longitude = *patch.Longitude
	}
	if patch.SignalType != nil {
		reading.SignalType = *patch.SignalType
	}
	if patch.SignalValue != nil {
		reading.SignalValue = *patch.SignalValue
	}
	reading.Timestamp = time.Now().UTC()

	if err := s.readings.Update(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

func (s *ReadingService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	reading, err := s.readings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	err = authorizeOwned(ctx, caller, authz.ActionDelete, func(ctx context.Context) (int64, error) {
		return s.resolver.readingOwner(ctx, reading)
	})
	if err != nil {
		return err
	}
	return s.readings.Delete(ctx, id)
}

func validateCoordinates(lat, lng string) error {
	if err := validateDecimal("latitude", lat); err != nil {
		return err
	}
	return validateDecimal("longitude", lng)
}

func validateDecimal(field, value string) error {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Errorf("%w: %s %q is not a decimal", domain.ErrInvalidValue, field, value)
	}
	return nil
}
