package controllers

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
)

// Profile is the account screen: profile form, favorite movies and account deletion.
type Profile struct {
	api       services.API
	catalog   *Catalog
	favorites *Favorites
	notify    Notifier
	nav       Navigator
	logger    *log.Logger

	mu        sync.RWMutex
	user      models.User
	form      models.UserUpdate
	favMovies models.Movies
}

func NewProfile(api services.API, catalog *Catalog, favorites *Favorites, notify Notifier, nav Navigator, logger *log.Logger) *Profile {
	return &Profile{api: api, catalog: catalog, favorites: favorites, notify: notify, nav: nav, logger: orDiscard(logger)}
}

// Load fetches the user, then the catalog, then keeps the movies the user marked as favorite.
func (p *Profile) Load(ctx context.Context) error {
	user, err := p.api.CurrentUser(ctx)
	if err != nil {
		p.notify.Notify(services.GenericMessage)
		return err
	}

	movies, err := p.catalog.Load(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = *user
	p.form = models.UserUpdate{Name: user.Name, Email: user.Email, Birthday: models.DateText(user.Birthday).Date()}
	p.favMovies = movies.Filter(user.FavoriteMovies)
	return nil
}

// User returns the loaded profile.
func (p *Profile) User() models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

// Form returns the profile fields used to prefill the edit form.
func (p *Profile) Form() models.UserUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.form
}

// FavoriteMovies returns the loaded favorite movies in catalog order.
func (p *Profile) FavoriteMovies() models.Movies {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.favMovies)
}

// Update sends the edited profile and reloads the screen on success.
func (p *Profile) Update(ctx context.Context, update models.UserUpdate) error {
	if _, err := p.api.EditUser(ctx, update); err != nil {
		p.logger.Warn("profile update failed", "err", err)
		p.notify.Notify(MsgUpdateFailed)
		return err
	}
	p.notify.Notify(MsgUserUpdated)
	return p.Load(ctx)
}

// Delete removes the account once confirm accepts [DeleteAccountPrompt]. The session is cleared
// by the client only after the server confirmed the deletion.
func (p *Profile) Delete(ctx context.Context, confirm func(prompt string) bool) error {
	if confirm != nil && !confirm(DeleteAccountPrompt) {
		return shared.ErrCanceled
	}
	if err := p.api.DeleteUser(ctx); err != nil {
		p.logger.Warn("account deletion failed", "err", err)
		p.notify.Notify(services.GenericMessage)
		return err
	}

	p.mu.Lock()
	p.user, p.form, p.favMovies = models.User{}, models.UserUpdate{}, nil
	p.mu.Unlock()

	p.nav.Navigate(RouteWelcome)
	p.notify.Notify(MsgUserDeleted)
	return nil
}

// RemoveFavorite drops a movie from the favorites and from the loaded list.
func (p *Profile) RemoveFavorite(ctx context.Context, movieID string) error {
	movie := models.Movie{ID: movieID}
	p.mu.RLock()
	if m, ok := p.favMovies.FindByID(movieID); ok {
		movie = m
	}
	p.mu.RUnlock()

	if err := p.favorites.Remove(ctx, movie); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.favMovies = slices.DeleteFunc(p.favMovies, func(m models.Movie) bool { return m.ID == movieID })
	if user, ok := p.api.Session().User(); ok {
		p.user = *user
	}
	return nil
}
