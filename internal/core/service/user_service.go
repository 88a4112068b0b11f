package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// UserService implements the user resource operations.
type UserService struct {
	users   ports.UserRepository
	devices ports.DeviceRepository
	creds   ports.CredentialVerifier
	log     zerolog.Logger
}

func NewUserService(users ports.UserRepository, devices ports.DeviceRepository, creds ports.CredentialVerifier, log zerolog.Logger) *UserService {
	return &UserService{users: users, devices: devices, creds: creds, log: log}
}

// Register creates an account without consulting the evaluator. The caller
// was already vetted at the transport boundary (pre-shared app client key).
func (s *UserService) Register(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.create(ctx, in)
}

// Create creates an account on behalf of an authenticated caller. The new
// row's implied owner is the created account itself, which can never be the
// caller, so the evaluator admits admins only.
func (s *UserService) Create(ctx context.Context, caller authz.Caller, in ports.CreateUserInput) (*domain.User, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionWrite, authz.Target{OwnerID: 0}); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *UserService) validateCreate(in ports.CreateUserInput) error {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return domain.ErrMissingFields
	}
	if !domain.ValidRole(in.Role) {
		return fmt.Errorf("%w: role %q", domain.ErrInvalidValue, in.Role)
	}
	return nil
}

func (s *UserService) create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	// Pre-check is an optimization; the store's unique index on email is the
	// final arbiter under concurrent creates.
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, caller authz.Caller, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{OwnerID: user.ID}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, caller authz.Caller) ([]*domain.User, error) {
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{Collection: true}); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

func (s *UserService) Patch(ctx context.Context, caller authz.Caller, id int64, patch ports.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionWrite, authz.Target{OwnerID: user.ID}); err != nil {
		return nil, err
	}

	if patch.Role != nil && !domain.ValidRole(*patch.Role) {
		return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidValue, *patch.Role)
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, *patch.Email); err == nil {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := s.creds.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(caller, authz.ActionDelete, authz.Target{OwnerID: user.ID}); err != nil {
		return err
	}

	cascade, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("user_id", id).
		Int64("devices_deleted", cascade.Devices).
		Int64("readings_deleted", cascade.Readings).
		Msg("user deleted")
	return nil
}

// ListDevices is an ownership-scoped list, not a list-all: the evaluator sees
// the target user as the owner, so the owner and admins pass.
func (s *UserService) ListDevices(ctx context.Context, caller authz.Caller, userID int64) ([]*domain.Device, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.ActionRead, authz.Target{OwnerID: user.ID}); err != nil {
		return nil, err
	}
	return s.devices.FindByUser(ctx, userID)
}
