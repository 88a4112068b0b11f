package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

const (
	maxLoginFailures = 5
	loginLockWindow  = 15 * time.Minute
)

// AuthService implements the authentication boundary: credential checks,
// failure counting with a temporary lock, and JWT issuance.
type AuthService struct {
	users     ports.UserRepository
	creds     ports.CredentialVerifier
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, creds ports.CredentialVerifier, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, creds: creds, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.LoginLockedAt != nil {
		if time.Since(*user.LoginLockedAt) < loginLockWindow {
			return "", nil, domain.ErrAccountLocked
		}
		// Lock expired; give the caller a fresh set of attempts.
		user.LoginLockedAt = nil
		user.LoginFailureCount = 0
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		user.LoginFailureCount++
		if user.LoginFailureCount >= maxLoginFailures {
			now := time.Now().UTC()
			user.LoginLockedAt = &now
			s.log.Warn().Int64("user_id", user.ID).Msg("account locked after repeated login failures")
		}
		if updateErr := s.users.Update(ctx, user); updateErr != nil {
			s.log.Error().Err(updateErr).Int64("user_id", user.ID).Msg("failed to persist login failure")
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if user.LoginFailureCount != 0 || user.LoginLockedAt != nil {
		user.LoginFailureCount = 0
		user.LoginLockedAt = nil
		if updateErr := s.users.Update(ctx, user); updateErr != nil {
			s.log.Error().Err(updateErr).Int64("user_id", user.ID).Msg("failed to reset login failures")
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
