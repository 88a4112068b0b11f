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

// CellTowerService implements the cell tower resource operations. Towers are
// shared reference data: reads are open to any authenticated caller, every
// mutation is admin-only.
type CellTowerService struct {
	towers ports.CellTowerRepository
	log    zerolog.Logger
}

func NewCellTowerService(towers ports.CellTowerRepository, log zerolog.Logger) *CellTowerService {
	return &CellTowerService{towers: towers, log: log}
}

func (s *CellTowerService) Create(ctx context.Context, caller authz.Caller, in ports.CreateCellTowerInput) (*domain.CellTower, error) {
	if in.Name == "" || in.LocationAreaCode == "" || in.MobileCountryCode == "" ||
		in.MobileNetworkCode == "" || in.Latitude == "" || in.Longitude == "" {
		return nil, domain.ErrMissingFields
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	// Pre-check only; the unique index on celltower_name settles races.
	if _, err := s.towers.FindByName(ctx, in.Name); err == nil {
		return nil, fmt.Errorf("%w: celltower name already in use", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := authz.Authorize(caller, authz.ActionWrite, authz.Target{Shared: true}); err != nil {
		return nil, err
	}

	tower := &domain.CellTower{
		Name:              in.Name,
		LocationAreaCode:  in.LocationAreaCode,
		MobileCountryCode: in.MobileCountryCode,
		MobileNetworkCode: in.MobileNetworkCode,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.towers.Insert(ctx, tower); err != nil {
		return nil, err
	}

	s.log.Info().Int64("celltower_id", tower.ID).Str("name", tower.Name).Msg("celltower registered")
	return tower, nil
}

func (s *CellTowerService) Get(ctx context.Context, caller authz.Caller, id int64) (*domain.CellTower, error) {
	tower, err := s.towers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{Shared: true}); err != nil {
		return nil, err
	}
	return tower, nil
}

func (s *CellTowerService) List(ctx context.Context, caller authz.Caller) ([]*domain.CellTower, error) {
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{Shared: true, Collection: true}); err != nil {
		return nil, err
	}
	return s.towers.FindAll(ctx)
}

func (s *CellTowerService) Patch(ctx context.Context, caller authz.Caller, id int64, patch ports.CellTowerPatch) (*domain.CellTower, error) {
	if patch.Empty() {
		return nil, domain.ErrMissingFields
	}

	tower, err := s.towers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionWrite, authz.Target{Shared: true}); err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != tower.Name {
		if _, err := s.towers.FindByName(ctx, *patch.Name); err == nil {
			return nil, fmt.Errorf("%w: celltower name already in use", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if patch.Latitude != nil {
		if err := validateDecimal("latitude", *patch.Latitude); err != nil {
			return nil, err
		}
		tower.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		if err := validateDecimal("longitude", *patch.Longitude); err != nil {
			return nil, err
		}
		tower.Longitude = *patch.Longitude
	}
	if patch.Name != nil {
		tower.Name = *patch.Name
	}
	if patch.LocationAreaCode != nil {
		tower.LocationAreaCode = *patch.LocationAreaCode
	}
	if patch.MobileCountryCode != nil {
		tower.MobileCountryCode = *patch.MobileCountryCode
	}
	if patch.MobileNetworkCode != nil {
		tower.MobileNetworkCode = *patch.MobileNetworkCode
	}
	tower.UpdatedAt = time.Now().UTC()

	if err := s.towers.Update(ctx, tower); err != nil {
		return nil, err
	}
	return tower, nil
}

// Delete removes a tower. Towers referenced by live readings are protected:
// the repository refuses with Conflict instead of leaving readings dangling.
func (s *CellTowerService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	if _, err := s.towers.FindByID(ctx, id); err != nil {
		return err
	}
	if err := authz.Authorize(caller, authz.ActionDelete, authz.Target{Shared: true}); err != nil {
		return err
	}
	return s.towers.Delete(ctx, id)
}
