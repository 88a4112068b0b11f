package authz

import (
	"errors"
	"testing"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

func TestAuthorize_AdminBypassesEverything(t *testing.T) {
	admin := Caller{UserID: 1, Role: domain.RoleAdmin}

	targets := []Target{
		{OwnerID: 99},
		{Shared: true},
		{Collection: true},
		{Shared: true, Collection: true},
	}
	for _, tgt := range targets {
		for _, action := range []Action{ActionRead, ActionWrite, ActionDelete} {
			if err := Authorize(admin, action, tgt); err != nil {
				t.Fatalf("admin denied on %+v action %d: %v", tgt, action, err)
			}
		}
	}
}

func TestAuthorize_CollectionDeniedForUser(t *testing.T) {
	user := Caller{UserID: 7, Role: domain.RoleUser}

	err := Authorize(user, ActionRead, Target{Collection: true})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Even a collection the caller "owns" is denied: list-all is admin-only.
	err = Authorize(user, ActionRead, Target{OwnerID: 7, Collection: true})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on owned collection, got %v", err)
	}
}

func TestAuthorize_OwnershipMatch(t *testing.T) {
	user := Caller{UserID: 7, Role: domain.RoleUser}

	if err := Authorize(user, ActionWrite, Target{OwnerID: 7}); err != nil {
		t.Fatalf("owner denied on own resource: %v", err)
	}
	if err := Authorize(user, ActionDelete, Target{OwnerID: 8}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign resource, got %v", err)
	}
}

func TestAuthorize_SharedResources(t *testing.T) {
	user := Caller{UserID: 7, Role: domain.RoleUser}

	if err := Authorize(user, ActionRead, Target{Shared: true}); err != nil {
		t.Fatalf("shared read denied: %v", err)
	}
	for _, action := range []Action{ActionWrite, ActionDelete} {
		if err := Authorize(user, action, Target{Shared: true}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden on shared mutation, got %v", err)
		}
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	ghost := Caller{UserID: 7, Role: "guest"}
	if err := Authorize(ghost, ActionRead, Target{OwnerID: 7}); err != nil {
		// Unknown roles fall through the admin check and are held to the
		// same ownership rules as USER.
		t.Fatalf("unexpected deny for owned resource: %v", err)
	}
	if err := Authorize(ghost, ActionRead, Target{Collection: true}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
