// Package authz decides whether a caller may perform an operation on a
// resource. The decision is a pure function of the caller's role and the
// resource's resolved owner: services walk the ownership chain
// (reading → device → user) on every request and pass the result in, so a
// role or ownership change takes effect immediately.
package authz

import "github.com/signaltracker/tracker-api/internal/core/domain"

// Action is the kind of operation being authorized.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
)

// Caller is the authenticated identity performing the request, resolved by
// the transport layer before the core is invoked.
type Caller struct {
	UserID int64
	Role   string
}

// Target describes the resource the operation applies to. For owned resources
// OwnerID is the user id at the end of the ownership chain. Shared marks
// resources with no owning user (cell towers). Collection marks list-all
// operations, which are admin-only regardless of target.
type Target struct {
	OwnerID    int64
	Shared     bool
	Collection bool
}

// Authorize returns nil when the operation is allowed and domain.ErrForbidden
// otherwise. Precedence: admin bypass, then the collection gate, then
// shared-resource rules, then the ownership match.
func Authorize(caller Caller, action Action, target Target) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if target.Collection {
		return domain.ErrForbidden
	}
	if target.Shared {
		if action == ActionRead {
			return nil
		}
		return domain.ErrForbidden
	}
	if target.OwnerID != caller.UserID {
		return domain.ErrForbidden
	}
	return nil
}
