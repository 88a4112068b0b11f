package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CellTowerRepository defines persistence operations for cell towers. Insert
// must surface a tower-name uniqueness violation as domain.ErrConflict even
// when it is only detected at commit time.
type CellTowerRepository interface {
	Insert(ctx context.Context, t *domain.CellTower) error
	FindByID(ctx context.Context, id int64) (*domain.CellTower, error)
	FindByName(ctx context.Context, name string) (*domain.CellTower, error)
	FindAll(ctx context.Context) ([]*domain.CellTower, error)
	Update(ctx context.Context, t *domain.CellTower) error
	// Delete refuses to remove a tower that readings still reference,
	// returning domain.ErrConflict; the check and the delete run in one
	// transaction.
	Delete(ctx context.Context, id int64) error
}
