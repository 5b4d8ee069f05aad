// package services implements the myFlix API client
package services

import (
	"context"

	"github.com/desertthunder/myflix/internal/models"
)

// API is the set of backend operations used by the view controllers.
type API interface {
	// Register creates an account. It does not log in.
	Register(ctx context.Context, reg models.Registration) (*models.User, error)

	// Login exchanges credentials for a token and stores the session.
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)

	// Movies returns the full catalog.
	Movies(ctx context.Context) (models.Movies, error)

	// Movie looks a movie up by title.
	Movie(ctx context.Context, title string) (*models.Movie, error)

	// Director looks a director up by name.
	Director(ctx context.Context, name string) (*models.Director, error)

	// Genre looks a genre up by name.
	Genre(ctx context.Context, name string) (*models.Genre, error)

	// User fetches a profile by username.
	User(ctx context.Context, username string) (*models.User, error)

	// CurrentUser re-fetches the session user and refreshes the snapshot.
	CurrentUser(ctx context.Context) (*models.User, error)

	// AddFavorite adds a movie to the session user's favorites.
	AddFavorite(ctx context.Context, movieID string) (*models.User, error)

	// RemoveFavorite removes a movie from the session user's favorites.
	RemoveFavorite(ctx context.Context, movieID string) (*models.User, error)

	// EditUser applies a partial profile update to the session user.
	EditUser(ctx context.Context, update models.UserUpdate) (*models.User, error)

	// DeleteUser deletes the session user's account and clears the session.
	DeleteUser(ctx context.Context) error

	// Session exposes the store the client reads and writes.
	Session() models.SessionStore
}

var _ API = (*Client)(nil)
