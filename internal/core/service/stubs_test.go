package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories. Cascades mirror what the
// real Mongo repositories do inside a transaction.
// ---------------------------------------------------------------------------

type memStore struct {
	users    map[int64]*domain.User
	devices  map[int64]*domain.Device
	readings map[int64]*domain.Reading
	towers   map[int64]*domain.CellTower
	seq      int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*domain.User),
		devices:  make(map[int64]*domain.Device),
		readings: make(map[int64]*domain.Reading),
		towers:   make(map[int64]*domain.CellTower),
	}
}

func (m *memStore) nextID() int64 {
	m.seq++
	return m.seq
}

// --- users ---

type stubUserRepo struct{ store *memStore }

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
	}
	u.ID = r.store.nextID()
	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.store.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) (ports.CascadeResult, error) {
	if _, ok := r.store.users[id]; !ok {
		return ports.CascadeResult{}, domain.ErrNotFound
	}
	var res ports.CascadeResult
	for devID, d := range r.store.devices {
		if d.UserID != id {
			continue
		}
		for readID, rd := range r.store.readings {
			if rd.DeviceID == devID {
				delete(r.store.readings, readID)
				res.Readings++
			}
		}
		delete(r.store.devices, devID)
		res.Devices++
	}
	delete(r.store.users, id)
	return res, nil
}

// --- devices ---

type stubDeviceRepo struct{ store *memStore }

func (r *stubDeviceRepo) Insert(_ context.Context, d *domain.Device) error {
	d.ID = r.store.nextID()
	clone := *d
	r.store.devices[d.ID] = &clone
	return nil
}

func (r *stubDeviceRepo) FindByID(_ context.Context, id int64) (*domain.Device, error) {
	d, ok := r.store.devices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDeviceRepo) FindAll(_ context.Context) ([]*domain.Device, error) {
	out := make([]*domain.Device, 0, len(r.store.devices))
	for _, d := range r.store.devices {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubDeviceRepo) FindByUser(_ context.Context, userID int64) ([]*domain.Device, error) {
	var out []*domain.Device
	for _, d := range r.store.devices {
		if d.UserID == userID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubDeviceRepo) Update(_ context.Context, d *domain.Device) error {
	if _, ok := r.store.devices[d.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *d
	r.store.devices[d.ID] = &clone
	return nil
}

func (r *stubDeviceRepo) Delete(_ context.Context, id int64) (ports.CascadeResult, error) {
	if _, ok := r.store.devices[id]; !ok {
		return ports.CascadeResult{}, domain.ErrNotFound
	}
	var res ports.CascadeResult
	for readID, rd := range r.store.readings {
		if rd.DeviceID == id {
			delete(r.store.readings, readID)
			res.Readings++
		}
	}
	delete(r.store.devices, id)
	return res, nil
}

// --- readings ---

type stubReadingRepo struct{ store *memStore }

func (r *stubReadingRepo) Insert(_ context.Context, rd *domain.Reading) error {
	rd.ID = r.store.nextID()
	clone := *rd
	r.store.readings[rd.ID] = &clone
	return nil
}

func (r *stubReadingRepo) FindByID(_ context.Context, id int64) (*domain.Reading, error) {
	rd, ok := r.store.readings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rd
	return &clone, nil
}

func (r *stubReadingRepo) FindAll(_ context.Context) ([]*domain.Reading, error) {
	out := make([]*domain.Reading, 0, len(r.store.readings))
	for _, rd := range r.store.readings {
		clone := *rd
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubReadingRepo) FindByDevice(_ context.Context, deviceID int64, day *time.Time) ([]*domain.Reading, error) {
	var out []*domain.Reading
	for _, rd := range r.store.readings {
		if rd.DeviceID != deviceID {
			continue
		}
		if day != nil {
			start := day.UTC().Truncate(24 * time.Hour)
			end := start.Add(24 * time.Hour)
			if rd.Timestamp.Before(start) || !rd.Timestamp.Before(end) {
				continue
			}
		}
		clone := *rd
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubReadingRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Reading, error) {
	for _, rd := range r.store.readings {
		if rd.IdempotencyKey == key {
			clone := *rd
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubReadingRepo) CountByTower(_ context.Context, towerID int64) (int64, error) {
	var n int64
	for _, rd := range r.store.readings {
		if rd.CellTowerID == towerID {
			n++
		}
	}
	return n, nil
}

func (r *stubReadingRepo) Update(_ context.Context, rd *domain.Reading) error {
	if _, ok := r.store.readings[rd.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *rd
	r.store.readings[rd.ID] = &clone
	return nil
}

func (r *stubReadingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.readings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.readings, id)
	return nil
}

// --- cell towers ---

type stubTowerRepo struct{ store *memStore }

func (r *stubTowerRepo) Insert(_ context.Context, t *domain.CellTower) error {
	for _, existing := range r.store.towers {
		if existing.Name == t.Name {
			return fmt.Errorf("%w: celltower name already in use", domain.ErrConflict)
		}
	}
	t.ID = r.store.nextID()
	clone := *t
	r.store.towers[t.ID] = &clone
	return nil
}

func (r *stubTowerRepo) FindByID(_ context.Context, id int64) (*domain.CellTower, error) {
	t, ok := r.store.towers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTowerRepo) FindByName(_ context.Context, name string) (*domain.CellTower, error) {
	for _, t := range r.store.towers {
		if t.Name == name {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubTowerRepo) FindAll(_ context.Context) ([]*domain.CellTower, error) {
	out := make([]*domain.CellTower, 0, len(r.store.towers))
	for _, t := range r.store.towers {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTowerRepo) Update(_ context.Context, t *domain.CellTower) error {
	if _, ok := r.store.towers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *t
	r.store.towers[t.ID] = &clone
	return nil
}

func (r *stubTowerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.towers[id]; !ok {
		return domain.ErrNotFound
	}
	for _, rd := range r.store.readings {
		if rd.CellTowerID == id {
			return fmt.Errorf("%w: celltower still referenced by readings", domain.ErrConflict)
		}
	}
	delete(r.store.towers, id)
	return nil
}

// --- credential verifier / dedup ---

type stubCreds struct{}

func (stubCreds) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (stubCreds) Verify(plain, hash string) bool    { return hash == "hashed:"+plain }

type stubDedup struct {
	seen    map[string]bool
	seenErr error
}

func newStubDedup() *stubDedup { return &stubDedup{seen: make(map[string]bool)} }

func (d *stubDedup) Seen(_ context.Context, key string) (bool, error) {
	if d.seenErr != nil {
		return false, d.seenErr
	}
	return d.seen[key], nil
}

func (d *stubDedup) Mark(_ context.Context, key string) error {
	d.seen[key] = true
	return nil
}
