package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// ownerResolver walks ownership chains (reading → device → user) against the
// store at request time. Results are never cached: ownership and roles may
// change between requests.
type ownerResolver struct {
	users   ports.UserRepository
	devices ports.DeviceRepository
}

// deviceOwner resolves the user owning a device. A device whose owning user
// no longer exists is a dangling reference, surfaced as an ownership anomaly
// rather than a permission failure.
func (o ownerResolver) deviceOwner(ctx context.Context, d *domain.Device) (int64, error) {
	if _, err := o.users.FindByID(ctx, d.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("device %d -> user %d: %w", d.ID, d.UserID, domain.ErrOwnershipAnomaly)
		}
		return 0, err
	}
	return d.UserID, nil
}

// readingOwner resolves the user owning a reading via its device.
func (o ownerResolver) readingOwner(ctx context.Context, r *domain.Reading) (int64, error) {
	d, err := o.devices.FindByID(ctx, r.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("reading %d -> device %d: %w", r.ID, r.DeviceID, domain.ErrOwnershipAnomaly)
		}
		return 0, err
	}
	return o.deviceOwner(ctx, d)
}

// authorizeOwned resolves the target's owner and consults the evaluator.
// Admins skip resolution entirely: the evaluator allows them regardless of
// owner, so a broken chain must not block an admin from reaching (and
// repairing) the resource.
func authorizeOwned(ctx context.Context, caller authz.Caller, action authz.Action, resolve func(context.Context) (int64, error)) error {
	if caller.Role == domain.RoleAdmin {
		return authz.Authorize(caller, action, authz.Target{})
	}
	owner, err := resolve(ctx)
	if err != nil {
		return err
	}
	return authz.Authorize(caller, action, authz.Target{OwnerID: owner})
}
