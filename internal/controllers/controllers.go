// package controllers implements the view controllers of the myflix client
package controllers

import (
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/services"
)

// Route names a top-level view.
type Route string

const (
	RouteWelcome Route = "welcome"
	RouteMovies  Route = "movies"
	RouteProfile Route = "profile"
)

const (
	MsgSignUpSuccess    = "Sign up was successful"
	MsgLoginSuccess     = "User logged in successfully!"
	MsgLoginFailed      = "User login failed"
	MsgUserUpdated      = "User updated successfully!"
	MsgUpdateFailed     = "An error occurred while Updating your account."
	MsgUserDeleted      = "User successfully deleted."
	MsgFavoriteAdded    = "Movie has been added to your favorites!"
	MsgFavoriteRemoved  = "Movie has been removed from your favorites!"
	MsgFavoriteFailed   = "Could not update your favorites."
	MsgLoggedOut        = "You have been logged out"
	MsgLoginRequired    = "Please log in first."
	DeleteAccountPrompt = "Do you want to delete your account permanently?"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// Navigator switches the active view.
type Navigator interface {
	Navigate(route Route)
}

// Recorder buffers notices and navigation requests. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []string
	routes  []Route
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

func (r *Recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notices)
}

func (r *Recorder) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.routes)
}

// LastNotice returns the most recent notice, or "".
func (r *Recorder) LastNotice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1]
}

// LastRoute returns the most recent navigation target, or "".
func (r *Recorder) LastRoute() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() ([]string, []Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notices, routes := r.notices, r.routes
	r.notices, r.routes = nil, nil
	return notices, routes
}

// App bundles the controllers of one client session.
type App struct {
	Registration *Registration
	Login        *Login
	Catalog      *Catalog
	Favorites    *Favorites
	Profile      *Profile
	Navbar       *Navbar
}

// NewApp wires every controller to api. cache may be nil.
func NewApp(api services.API, cache MovieCache, notify Notifier, nav Navigator, logger *log.Logger) *App {
	logger = orDiscard(logger)
	catalog := NewCatalog(api, cache, notify, logger)
	favorites := NewFavorites(api, notify, logger)
	return &App{
		Registration: NewRegistration(api, notify, logger),
		Login:        NewLogin(api, notify, nav, logger),
		Catalog:      catalog,
		Favorites:    favorites,
		Profile:      NewProfile(api, catalog, favorites, notify, nav, logger),
		Navbar:       NewNavbar(api.Session(), notify, nav, logger),
	}
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
