package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CreateUserInput carries all data needed to create a user.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// UserPatch is a sparse update. A nil field is left untouched; a non-nil
// field is applied even when it points at an empty value. Presence, not
// truthiness, decides.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *string
}

// Empty reports whether the patch names no fields at all.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Password == nil && p.Role == nil
}

// UserService defines the resource operations for users. Register is the
// unauthenticated path used by the app-key-gated registration endpoint; all
// other operations consult the authorization evaluator.
type UserService interface {
	Register(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Create(ctx context.Context, caller authz.Caller, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, caller authz.Caller, id int64) (*domain.User, error)
	List(ctx context.Context, caller authz.Caller) ([]*domain.User, error)
	Patch(ctx context.Context, caller authz.Caller, id int64, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error
	// ListDevices returns the devices owned by the given user; allowed for
	// the owner or an admin.
	ListDevices(ctx context.Context, caller authz.Caller, userID int64) ([]*domain.Device, error)
}
