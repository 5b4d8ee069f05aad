package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
)

// Favorites reads and changes the session user's favorite movies.
type Favorites struct {
	api    services.API
	notify Notifier
	logger *log.Logger

	// serializes mutations so a rollback never overwrites a later change
	mu sync.Mutex
}

func NewFavorites(api services.API, notify Notifier, logger *log.Logger) *Favorites {
	return &Favorites{api: api, notify: notify, logger: orDiscard(logger)}
}

// IDs returns the favorite identifiers of the session user.
func (f *Favorites) IDs() models.FavoriteList {
	user, ok := f.api.Session().User()
	if !ok {
		return models.FavoriteList{}
	}
	return user.FavoriteMovies
}

// IsFavorite reports whether movie's identifier is in the favorite set.
func (f *Favorites) IsFavorite(movie models.Movie) bool {
	return f.IDs().Contains(movie.ID)
}

// Load refreshes the favorite set from the server.
func (f *Favorites) Load(ctx context.Context) (models.FavoriteList, error) {
	user, err := f.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return user.FavoriteMovies, nil
}

func (f *Favorites) Add(ctx context.Context, movie models.Movie) error {
	return f.apply(ctx, movie, true)
}

func (f *Favorites) Remove(ctx context.Context, movie models.Movie) error {
	return f.apply(ctx, movie, false)
}

// Toggle adds movie when it is not a favorite and removes it otherwise. It returns the new state.
func (f *Favorites) Toggle(ctx context.Context, movie models.Movie) (bool, error) {
	if f.IsFavorite(movie) {
		return false, f.Remove(ctx, movie)
	}
	return true, f.Add(ctx, movie)
}

func (f *Favorites) apply(ctx context.Context, movie models.Movie, add bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	store := f.api.Session()
	user, ok := store.User()
	if !ok {
		f.notify.Notify(MsgLoginRequired)
		return fmt.Errorf("favorites: %w", shared.ErrNoSession)
	}
	previous := *user

	optimistic := previous
	if add {
		optimistic.FavoriteMovies = previous.FavoriteMovies.With(movie.ID)
	} else {
		optimistic.FavoriteMovies = previous.FavoriteMovies.Without(movie.ID)
	}
	if err := store.SetUser(optimistic); err != nil {
		f.logger.Warn("failed to store optimistic favorites", "err", err)
	}

	var err error
	if add {
		_, err = f.api.AddFavorite(ctx, movie.ID)
	} else {
		_, err = f.api.RemoveFavorite(ctx, movie.ID)
	}
	if err != nil {
		// a logout while the request was in flight leaves nothing to restore
		if store.Token() != "" {
			if rbErr := store.SetUser(previous); rbErr != nil {
				f.logger.Error("failed to roll back favorites", "err", rbErr)
			}
		}
		f.logger.Warn("favorite update failed", "movie", movie.ID, "add", add, "err", err)
		f.notify.Notify(MsgFavoriteFailed)
		return err
	}

	if add {
		f.notify.Notify(MsgFavoriteAdded)
	} else {
		f.notify.Notify(MsgFavoriteRemoved)
	}
	return nil
}
