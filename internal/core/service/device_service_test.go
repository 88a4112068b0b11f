package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

func TestDeviceCreate_RequiresExistingUser(t *testing.T) {
	f := newFixture()
	admin := f.seedUser(t, domain.RoleAdmin)

	in := ports.CreateDeviceInput{UserID: 9999, Manufacturer: "Google", Model: "Pixel 8", SerialNo: "SN-9", OSVersion: "14"}
	_, err := f.devices.Create(context.Background(), asCaller(admin), in)
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
	if len(f.store.devices) != 0 {
		t.Fatalf("failed create persisted a row")
	}
}

func TestDeviceCreate_OwnerOrAdmin(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	bob := f.seedUser(t, domain.RoleUser)
	admin := f.seedUser(t, domain.RoleAdmin)

	in := ports.CreateDeviceInput{UserID: alice.ID, Manufacturer: "Google", Model: "Pixel 8", SerialNo: "SN-1", OSVersion: "14"}

	// The implied owner of the new device is the referenced user.
	if _, err := f.devices.Create(context.Background(), asCaller(bob), in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign user, got %v", err)
	}
	own, err := f.devices.Create(context.Background(), asCaller(alice), in)
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if own.ID == 0 || own.UserID != alice.ID {
		t.Fatalf("bad device: %+v", own)
	}
	if _, err := f.devices.Create(context.Background(), asCaller(admin), in); err != nil {
		t.Fatalf("admin create: %v", err)
	}
}

func TestDeviceCreate_MissingFields(t *testing.T) {
	f := newFixture()
	admin := f.seedUser(t, domain.RoleAdmin)

	_, err := f.devices.Create(context.Background(), asCaller(admin), ports.CreateDeviceInput{UserID: admin.ID})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestDeviceGet_WalksOwnershipChain(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	bob := f.seedUser(t, domain.RoleUser)
	device := f.seedDevice(t, alice.ID)

	if _, err := f.devices.Get(context.Background(), asCaller(alice), device.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.devices.Get(context.Background(), asCaller(bob), device.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeviceGet_DanglingOwnerIsConflictNotForbidden(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	device := f.seedDevice(t, alice.ID)

	// Simulate a dangling reference: the owning user row vanishes.
	delete(f.store.users, alice.ID)

	_, err := f.devices.Get(context.Background(), asCaller(alice), device.ID)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict-class error, got %v", err)
	}
	if errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anomaly must not read as a permission failure")
	}
}

func TestDevicePatch_PartialMerge(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	device := f.seedDevice(t, alice.ID)

	updated, err := f.devices.Patch(context.Background(), asCaller(alice), device.ID, ports.DevicePatch{
		OSVersion: strptr("15"),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.OSVersion != "15" {
		t.Fatalf("patched field not applied: %q", updated.OSVersion)
	}
	if updated.Manufacturer != device.Manufacturer || updated.SerialNo != device.SerialNo {
		t.Fatalf("unnamed fields changed: %+v", updated)
	}

	if _, err := f.devices.Patch(context.Background(), asCaller(alice), device.ID, ports.DevicePatch{}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields on empty patch, got %v", err)
	}
}

func TestDeviceDelete_CascadesToReadings(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	tower := f.seedTower(t, "tower-1")
	device := f.seedDevice(t, alice.ID)
	other := f.seedDevice(t, alice.ID)
	f.seedReading(t, device.ID, tower.ID)
	f.seedReading(t, device.ID, tower.ID)
	kept := f.seedReading(t, other.ID, tower.ID)

	if err := f.devices.Delete(context.Background(), asCaller(alice), device.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.store.readings) != 1 {
		t.Fatalf("expected 1 surviving reading, got %d", len(f.store.readings))
	}
	if _, ok := f.store.readings[kept.ID]; !ok {
		t.Fatalf("cascade removed another device's reading")
	}
}

func TestDeviceListReadings_DayFilter(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, domain.RoleUser)
	tower := f.seedTower(t, "tower-1")
	device := f.seedDevice(t, alice.ID)

	today := f.seedReading(t, device.ID, tower.ID)
	old := f.seedReading(t, device.ID, tower.ID)
	old.Timestamp = time.Now().UTC().AddDate(0, 0, -3)

	day := time.Now().UTC()
	readings, err := f.devices.ListReadings(context.Background(), asCaller(alice), device.ID, &day)
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(readings) != 1 || readings[0].ID != today.ID {
		t.Fatalf("day filter wrong: %+v", readings)
	}

	all, err := f.devices.ListReadings(context.Background(), asCaller(alice), device.ID, nil)
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(all))
	}
}
