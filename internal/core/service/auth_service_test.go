package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

func newAuthFixture() (*fixture, *AuthService) {
	f := newFixture()
	auth := NewAuthService(&stubUserRepo{store: f.store}, stubCreds{}, "test-secret", time.Hour, zerolog.Nop())
	return f, auth
}

func TestLogin_Success(t *testing.T) {
	f, auth := newAuthFixture()
	alice := f.seedUser(t, domain.RoleUser)
	alice.Email = "alice@x.com"
	alice.PasswordHash = "hashed:pw"

	token, user, err := auth.Login(context.Background(), "alice@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user.ID != alice.ID {
		t.Fatalf("wrong user: %+v", user)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f, auth := newAuthFixture()
	alice := f.seedUser(t, domain.RoleUser)
	alice.Email = "alice@x.com"
	alice.PasswordHash = "hashed:pw"

	cases := []struct{ email, password string }{
		{"", ""},
		{"alice@x.com", "wrong"},
		{"nobody@x.com", "pw"},
	}
	for _, tc := range cases {
		if _, _, err := auth.Login(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("(%q,%q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestLogin_FailureCounterAndLock(t *testing.T) {
	f, auth := newAuthFixture()
	alice := f.seedUser(t, domain.RoleUser)
	alice.Email = "alice@x.com"
	alice.PasswordHash = "hashed:pw"

	for i := 0; i < maxLoginFailures; i++ {
		if _, _, err := auth.Login(context.Background(), "alice@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	stored := f.store.users[alice.ID]
	if stored.LoginLockedAt == nil {
		t.Fatalf("account not locked after %d failures", maxLoginFailures)
	}

	// Even the right password is refused while the lock holds.
	if _, _, err := auth.Login(context.Background(), "alice@x.com", "pw"); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestLogin_LockExpiresAndCounterResets(t *testing.T) {
	f, auth := newAuthFixture()
	alice := f.seedUser(t, domain.RoleUser)
	alice.Email = "alice@x.com"
	alice.PasswordHash = "hashed:pw"
	past := time.Now().UTC().Add(-loginLockWindow - time.Minute)
	alice.LoginLockedAt = &past
	alice.LoginFailureCount = maxLoginFailures

	token, _, err := auth.Login(context.Background(), "alice@x.com", "pw")
	if err != nil {
		t.Fatalf("login after lock expiry: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	stored := f.store.users[alice.ID]
	if stored.LoginFailureCount != 0 || stored.LoginLockedAt != nil {
		t.Fatalf("counter/lock not reset: %+v", stored)
	}
}
