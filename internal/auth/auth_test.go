package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

type fakeStore struct {
	users    map[string]core.User
	sessions map[string]session
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]core.User),
		sessions: make(map[string]session),
	}
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	u, ok := f.users[username]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateSession(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	f.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) GetSessionUser(_ context.Context, token string) (core.User, error) {
	s, ok := f.sessions[token]
	if !ok || time.Now().After(s.expiresAt) {
		return core.User{}, storage.ErrNotFound
	}
	for _, u := range f.users {
		if u.ID == s.userID {
			return u, nil
		}
	}
	return core.User{}, storage.ErrNotFound
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	if _, ok := f.sessions[token]; !ok {
		return storage.ErrNotFound
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context) (int64, error) {
	var removed int64
	now := time.Now()
	for token, s := range f.sessions {
		if now.After(s.expiresAt) {
			delete(f.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func seedUser(t *testing.T, store *fakeStore, username, password string) core.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	u := core.User{ID: 1, Name: "Admin", Username: username, Role: core.RoleAdmin, PasswordHash: hash}
	store.users[username] = u
	return u
}

func TestLoginAndAuthenticate(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "admin", "rahasia123")
	svc := NewService(store, time.Hour)

	token, user, err := svc.Login(context.Background(), "admin", "rahasia123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.Username != "admin" {
		t.Errorf("Username = %q, want admin", user.Username)
	}

	got, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user ID = %d, want %d", got.ID, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "admin", "rahasia123")
	svc := NewService(store, time.Hour)

	_, _, err := svc.Login(context.Background(), "admin", "salah")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(newFakeStore(), time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "admin", "rahasia123")
	svc := NewService(store, -time.Minute) // sessions expire immediately

	token, _, err := svc.Login(context.Background(), "admin", "rahasia123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want storage.ErrNotFound", err)
	}
}

func TestLogout(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "admin", "rahasia123")
	svc := NewService(store, time.Hour)

	token, _, err := svc.Login(context.Background(), "admin", "rahasia123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error after logout = %v, want storage.ErrNotFound", err)
	}

	// Logging out twice must not error.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Errorf("second Logout failed: %v", err)
	}
}
