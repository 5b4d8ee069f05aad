package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// password returns the --password flag or prompts for it.
func (r *Runner) password(cmd *cli.Command) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}
	return r.prompt("Password")
}

// Register creates an account. The CLI keeps no dialog open, so a failure is returned after the
// server's message has been printed.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	r.app.Registration.Open()
	user, err := r.app.Registration.Submit(ctx, models.Registration{
		Name:     cmd.String("username"),
		Password: password,
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("registered", "user", user.Name)
	r.writePlain("Run 'myflix login -u %s' to log in.\n", user.Name)
	return nil
}

// Login authenticates and stores the session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	r.app.Login.Open()
	result, err := r.app.Login.Submit(ctx, models.Credentials{Name: cmd.String("username"), Password: password})
	if err != nil {
		return err
	}

	r.logger.Debug("logged in", "user", result.User.Name, "favorites", len(result.User.FavoriteMovies))
	return nil
}

// Logout clears the stored session.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	return r.app.Navbar.Logout()
}

// Status prints the session state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	st := session.Describe(r.api.Session())
	if cmd.Bool("json") {
		return r.writeJSON(st, true)
	}

	if !st.LoggedIn {
		r.writePlain("Not logged in.\n")
		return nil
	}

	r.writePlainHeader("Session")
	r.writePlain("User:      %s\n", st.Username)
	if st.Email != "" {
		r.writePlain("Email:     %s\n", st.Email)
	}
	r.writePlain("Favorites: %d\n", st.Favorites)
	r.writePlain("API:       %s\n", r.api.BaseURL())
	if !st.Since.IsZero() {
		r.writePlain("Since:     %s\n", st.Since.Local().Format(time.RFC1123))
	}
	switch {
	case st.ExpiresAt.IsZero():
		r.writePlain("Expires:   unknown\n")
	case st.Expired(time.Now()):
		r.writePlain("Expires:   %s (expired, log in again)\n", st.ExpiresAt.Local().Format(time.RFC1123))
	default:
		r.writePlain("Expires:   %s (in %s)\n", st.ExpiresAt.Local().Format(time.RFC1123), time.Until(st.ExpiresAt).Round(time.Minute))
	}
	return nil
}

// requireSession fails early with a hint when nobody is logged in.
func (r *Runner) requireSession() error {
	if r.api.Session().Token() == "" {
		return fmt.Errorf("%w: run 'myflix login' first", shared.ErrNotAuthenticated)
	}
	return nil
}
