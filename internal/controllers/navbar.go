package controllers

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
)

// Navbar switches views and logs out.
type Navbar struct {
	session models.SessionStore
	notify  Notifier
	nav     Navigator
	logger  *log.Logger
}

func NewNavbar(session models.SessionStore, notify Notifier, nav Navigator, logger *log.Logger) *Navbar {
	return &Navbar{session: session, notify: notify, nav: nav, logger: orDiscard(logger)}
}

// IsLoggedIn reports whether a token is stored.
func (n *Navbar) IsLoggedIn() bool {
	return n.session.Token() != ""
}

func (n *Navbar) OpenMovies()  { n.nav.Navigate(RouteMovies) }
func (n *Navbar) OpenProfile() { n.nav.Navigate(RouteProfile) }

// Logout clears the token and user snapshot, then returns to the welcome view.
func (n *Navbar) Logout() error {
	if err := n.session.Clear(); err != nil {
		n.logger.Error("failed to clear session", "err", err)
		return err
	}
	n.notify.Notify(MsgLoggedOut)
	n.nav.Navigate(RouteWelcome)
	return nil
}
