package service

import (
	"context"
	"errors"
	"testing"

	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

func validTowerInput(name string) ports.CreateCellTowerInput {
	return ports.CreateCellTowerInput{
		Name:              name,
		LocationAreaCode:  "310",
		MobileCountryCode: "234",
		MobileNetworkCode: "30",
		Latitude:          "51.5007",
		Longitude:         "-0.1246",
	}
}

func TestCellTowerCreate_AdminOnly(t *testing.T) {
	f := newFixture()
	plain := f.seedUser(t, domain.RoleUser)
	admin := f.seedUser(t, domain.RoleAdmin)

	if _, err := f.towers.Create(context.Background(), asCaller(plain), validTowerInput("t-1")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	tower, err := f.towers.Create(context.Background(), asCaller(admin), validTowerInput("t-1"))
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if tower.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCellTowerCreate_DuplicateNameConflict(t *testing.T) {
	f := newFixture()
	admin := f.seedUser(t, domain.RoleAdmin)

	if _, err := f.towers.Create(context.Background(), asCaller(admin), validTowerInput("dup")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	before := len(f.store.towers)

	if _, err := f.towers.Create(context.Background(), asCaller(admin), validTowerInput("dup")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(f.store.towers) != before {
		t.Fatalf("conflicting create persisted a row")
	}
}

func TestCellTowerRead_OpenToAnyCaller(t *testing.T) {
	f := newFixture()
	plain := f.seedUser(t, domain.RoleUser)
	admin := f.seedUser(t, domain.RoleAdmin)
	tower := f.seedTower(t, "t-1")

	if _, err := f.towers.Get(context.Background(), asCaller(plain), tower.ID); err != nil {
		t.Fatalf("user read of shared tower denied: %v", err)
	}

	// But list-all stays admin-only, like every other collection.
	if _, err := f.towers.List(context.Background(), asCaller(plain)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on list, got %v", err)
	}
	if _, err := f.towers.List(context.Background(), asCaller(admin)); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}

func TestCellTowerPatch_AdminOnlyAndPartial(t *testing.T) {
	f := newFixture()
	plain := f.seedUser(t, domain.RoleUser)
	admin := f.seedUser(t, domain.RoleAdmin)
	tower := f.seedTower(t, "t-1")

	if _, err := f.towers.Patch(context.Background(), asCaller(plain), tower.ID, ports.CellTowerPatch{Name: strptr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.towers.Patch(context.Background(), asCaller(admin), tower.ID, ports.CellTowerPatch{
		Latitude: strptr("40.7128"),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.Latitude != "40.7128" {
		t.Fatalf("patched field not applied: %q", updated.Latitude)
	}
	if updated.Name != tower.Name || updated.Longitude != tower.Longitude {
		t.Fatalf("unnamed fields changed: %+v", updated)
	}
}

func TestCellTowerDelete_BlockedWhileReferenced(t *testing.T) {
	f := newFixture()
	admin := f.seedUser(t, domain.RoleAdmin)
	alice := f.seedUser(t, domain.RoleUser)
	tower := f.seedTower(t, "t-1")
	device := f.seedDevice(t, alice.ID)
	reading := f.seedReading(t, device.ID, tower.ID)

	if err := f.towers.Delete(context.Background(), asCaller(admin), tower.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict while referenced, got %v", err)
	}

	delete(f.store.readings, reading.ID)
	if err := f.towers.Delete(context.Background(), asCaller(admin), tower.ID); err != nil {
		t.Fatalf("delete unreferenced tower: %v", err)
	}
	if err := f.towers.Delete(context.Background(), asCaller(admin), tower.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
