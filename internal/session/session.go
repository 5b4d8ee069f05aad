// Package session provides [models.SessionStore] implementations and helpers for inspecting a session.
//
// [MemoryStore] keeps the session for the life of the process. The SQLite-backed store
// lives in the repositories package so the CLI can reuse a login across invocations.
package session

import (
	"sync"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var _ models.SessionStore = (*MemoryStore)(nil)

// MemoryStore is a mutex-guarded in-process [models.SessionStore].
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *models.User
	since time.Time
}

// NewMemoryStore returns an empty (logged out) store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) User() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := s.user.Snapshot()
	return &u, true
}

func (s *MemoryStore) SetSession(user models.User, token string) error {
	snap := user.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &snap
	s.since = time.Now()
	return nil
}

func (s *MemoryStore) SetUser(user models.User) error {
	snap := user.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &snap
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.since = time.Time{}
	return nil
}

// UpdatedAt returns when the current token was stored.
func (s *MemoryStore) UpdatedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.since, !s.since.IsZero()
}

// stamped is implemented by stores that know when the token was written.
type stamped interface {
	UpdatedAt() (time.Time, bool)
}

// Status summarizes a session for display.
type Status struct {
	LoggedIn  bool
	Username  string
	Email     string
	Favorites int
	ExpiresAt time.Time // zero when the token carries no readable expiry
	Since     time.Time // zero when the store does not record it
}

// Expired reports whether the token expiry is known and in the past.
func (s Status) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Describe reads the store into a [Status].
func Describe(store models.SessionStore) Status {
	token := store.Token()
	st := Status{LoggedIn: token != ""}
	if user, ok := store.User(); ok {
		st.Username = user.Name
		st.Email = user.Email
		st.Favorites = len(user.FavoriteMovies)
	}
	if exp, ok := TokenExpiry(token); ok {
		st.ExpiresAt = exp
	}
	if s, ok := store.(stamped); ok && st.LoggedIn {
		if at, ok := s.UpdatedAt(); ok {
			st.Since = at
		}
	}
	return st
}

// TokenExpiry extracts the "exp" claim from a JWT bearer token without verifying its signature.
//
// The client never holds the signing key; the expiry is informational only.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
