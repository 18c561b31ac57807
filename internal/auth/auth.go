// Package auth handles password verification and bearer-token sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

const bcryptCost = 12

var ErrInvalidCredentials = errors.New("invalid username or password")

// SessionStore is the slice of the repository the auth service needs.
type SessionStore interface {
	GetUserByUsername(ctx context.Context, username string) (core.User, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetSessionUser(ctx context.Context, token string) (core.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type Service struct {
	store    SessionStore
	tokenTTL time.Duration
}

func NewService(store SessionStore, tokenTTL time.Duration) *Service {
	return &Service{store: store, tokenTTL: tokenTTL}
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials and mints a session token. Unknown usernames
// and wrong passwords both map to ErrInvalidCredentials so the response
// does not reveal which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (string, core.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", core.User{}, ErrInvalidCredentials
		}
		return "", core.User{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", core.User{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenTTL)
	if err := s.store.CreateSession(ctx, token, user.ID, expiresAt); err != nil {
		return "", core.User{}, fmt.Errorf("create session: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "username", user.Username, "role", user.Role)
	return token, user, nil
}

// Authenticate resolves a bearer token to its user. Expired or unknown
// tokens return storage.ErrNotFound.
func (s *Service) Authenticate(ctx context.Context, token string) (core.User, error) {
	if token == "" {
		return core.User{}, storage.ErrNotFound
	}
	return s.store.GetSessionUser(ctx, token)
}

// Logout invalidates a session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.store.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes expired sessions, typically on a timer.
func (s *Service) PurgeExpired(ctx context.Context) {
	removed, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to purge expired sessions", "error", err)
		return
	}
	if removed > 0 {
		slog.InfoContext(ctx, "Purged expired sessions", "count", removed)
	}
}
