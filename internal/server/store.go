package server

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists       = fmt.Errorf("user already exists")
	ErrWrongCredentials = fmt.Errorf("incorrect username or password")
)

type account struct {
	user models.User
	hash []byte
}

// Store is the in-memory state of the sandbox API.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*account
	names  map[string]string // user id -> current name
	movies models.Movies
}

func NewStore() *Store {
	return &Store{users: map[string]*account{}, names: map[string]string{}}
}

// SeedMovies replaces the catalog, assigning identifiers to movies without one.
func (s *Store) SeedMovies(movies models.Movies) error {
	seeded := slices.Clone(movies)
	for i := range seeded {
		if seeded[i].ID == "" {
			seeded[i].ID = uuid.NewString()
		}
	}
	if err := seeded.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = seeded
	return nil
}

func (s *Store) Movies() models.Movies {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

func (s *Store) MovieByTitle(title string) (models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.movies.FindByTitle(title); ok {
		return m, nil
	}
	return models.Movie{}, shared.ErrMovieNotFound
}

func (s *Store) GenreByName(name string) (models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if strings.EqualFold(m.Genre.Name, strings.TrimSpace(name)) {
			return m.Genre, nil
		}
	}
	return models.Genre{}, fmt.Errorf("genre %q: %w", name, shared.ErrMovieNotFound)
}

func (s *Store) DirectorByName(name string) (models.Director, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if strings.EqualFold(m.Director.Name, strings.TrimSpace(name)) {
			return m.Director, nil
		}
	}
	return models.Director{}, fmt.Errorf("director %q: %w", name, shared.ErrMovieNotFound)
}

// CreateUser registers an account with a bcrypt hashed password.
func (s *Store) CreateUser(reg models.Registration) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[reg.Name]; ok {
		return models.User{}, fmt.Errorf("%s: %w", reg.Name, ErrUserExists)
	}

	user := models.User{
		ID:             uuid.NewString(),
		Name:           reg.Name,
		Email:          reg.Email,
		Birthday:       reg.Birthday,
		FavoriteMovies: models.FavoriteList{},
	}
	s.users[reg.Name] = &account{user: user, hash: hash}
	s.names[user.ID] = reg.Name
	return user.Snapshot(), nil
}

// Authenticate checks a username and password.
func (s *Store) Authenticate(creds models.Credentials) (models.User, error) {
	s.mu.RLock()
	acct, ok := s.users[creds.Name]
	var (
		hash []byte
		user models.User
	)
	if ok {
		hash, user = slices.Clone(acct.hash), acct.user.Snapshot()
	}
	s.mu.RUnlock()
	if !ok {
		return models.User{}, ErrWrongCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)); err != nil {
		return models.User{}, ErrWrongCredentials
	}
	return user, nil
}

func (s *Store) User(name string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.users[name]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}
	return acct.user.Snapshot(), nil
}

// UserByID looks an account up by its identifier, which survives renames.
func (s *Store) UserByID(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[id]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}
	return s.users[name].user.Snapshot(), nil
}

// UpdateUser applies the non-empty fields of update, renaming the account when Name changes.
func (s *Store) UpdateUser(name string, update models.UserUpdate) (models.User, error) {
	var hash []byte
	if update.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[name]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}

	if update.Name != "" && update.Name != name {
		if _, taken := s.users[update.Name]; taken {
			return models.User{}, fmt.Errorf("%s: %w", update.Name, ErrUserExists)
		}
		delete(s.users, name)
		acct.user.Name = update.Name
		s.users[update.Name] = acct
		s.names[acct.user.ID] = update.Name
	}
	if update.Email != "" {
		acct.user.Email = update.Email
	}
	if update.Birthday != "" {
		acct.user.Birthday = update.Birthday
	}
	if hash != nil {
		acct.hash = hash
	}
	return acct.user.Snapshot(), nil
}

func (s *Store) DeleteUser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[name]
	if !ok {
		return shared.ErrUserNotFound
	}
	delete(s.names, acct.user.ID)
	delete(s.users, name)
	return nil
}

// AddFavorite adds movieID to the user's favorites; adding twice is a no-op.
func (s *Store) AddFavorite(name, movieID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[name]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}
	if _, ok := s.movies.FindByID(movieID); !ok {
		return models.User{}, shared.ErrMovieNotFound
	}
	acct.user.FavoriteMovies = acct.user.FavoriteMovies.With(movieID)
	return acct.user.Snapshot(), nil
}

// RemoveFavorite drops movieID from the user's favorites; removing a missing entry is a no-op.
func (s *Store) RemoveFavorite(name, movieID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[name]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}
	acct.user.FavoriteMovies = acct.user.FavoriteMovies.Without(movieID)
	return acct.user.Snapshot(), nil
}
