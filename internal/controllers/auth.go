package controllers

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
)

// Registration drives the sign up dialog.
type Registration struct {
	api    services.API
	notify Notifier
	logger *log.Logger

	mu   sync.Mutex
	open bool
}

func NewRegistration(api services.API, notify Notifier, logger *log.Logger) *Registration {
	return &Registration{api: api, notify: notify, logger: orDiscard(logger)}
}

func (r *Registration) Open() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = true
}

func (r *Registration) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = false
}

func (r *Registration) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// Submit creates the account. On success the dialog closes; on failure it stays open and
// the server's error payload is shown.
func (r *Registration) Submit(ctx context.Context, reg models.Registration) (*models.User, error) {
	user, err := r.api.Register(ctx, reg)
	if err != nil {
		r.logger.Warn("registration failed", "user", reg.Name, "err", err)
		r.notify.Notify(services.ErrorDetail(err))
		return nil, err
	}

	r.Close()
	r.notify.Notify(MsgSignUpSuccess)
	return user, nil
}

// Login drives the login dialog.
type Login struct {
	api    services.API
	notify Notifier
	nav    Navigator
	logger *log.Logger

	mu   sync.Mutex
	open bool
}

func NewLogin(api services.API, notify Notifier, nav Navigator, logger *log.Logger) *Login {
	return &Login{api: api, notify: notify, nav: nav, logger: orDiscard(logger)}
}

func (l *Login) Open() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = true
}

func (l *Login) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
}

func (l *Login) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Submit logs in. The client stores the session; this closes the dialog and moves to the movie list.
func (l *Login) Submit(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	result, err := l.api.Login(ctx, creds)
	if err != nil {
		l.logger.Warn("login failed", "user", creds.Name, "err", err)
		l.notify.Notify(MsgLoginFailed)
		return nil, err
	}

	l.Close()
	l.notify.Notify(MsgLoginSuccess)
	l.nav.Navigate(RouteMovies)
	return result, nil
}
