package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CascadeResult reports how many dependent rows a cascading delete removed.
type CascadeResult struct {
	Devices  int64
	Readings int64
}

// UserRepository defines persistence operations for users. Insert assigns the
// system id and must surface an email uniqueness violation as
// domain.ErrConflict even when it is only detected at commit time.
type UserRepository interface {
	Insert(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the user and, in the same transaction, all owned
	// devices and their readings. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) (CascadeResult, error)
}
