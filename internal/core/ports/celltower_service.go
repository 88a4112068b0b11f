package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CreateCellTowerInput carries all data needed to register a tower.
type CreateCellTowerInput struct {
	Name              string
	LocationAreaCode  string
	MobileCountryCode string
	MobileNetworkCode string
	Latitude          string
	Longitude         string
}

// CellTowerPatch is a sparse update.
type CellTowerPatch struct {
	Name              *string
	LocationAreaCode  *string
	MobileCountryCode *string
	MobileNetworkCode *string
	Latitude          *string
	Longitude         *string
}

func (p CellTowerPatch) Empty() bool {
	return p.Name == nil && p.LocationAreaCode == nil && p.MobileCountryCode == nil &&
		p.MobileNetworkCode == nil && p.Latitude == nil && p.Longitude == nil
}

// CellTowerService defines the resource operations for cell towers. Towers
// are shared: any authenticated caller may read one, only admins mutate.
type CellTowerService interface {
	Create(ctx context.Context, caller authz.Caller, in CreateCellTowerInput) (*domain.CellTower, error)
	Get(ctx context.Context, caller authz.Caller, id int64) (*domain.CellTower, error)
	List(ctx context.Context, caller authz.Caller) ([]*domain.CellTower, error)
	Patch(ctx context.Context, caller authz.Caller, id int64, patch CellTowerPatch) (*domain.CellTower, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error
}
