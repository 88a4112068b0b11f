package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// AuthService is the authentication boundary: it verifies credentials,
// maintains the login-failure counter and lock, and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
