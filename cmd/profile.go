package main

import (
	"context"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the account and its favorite movies.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}
	if err := r.app.Profile.Load(ctx); err != nil {
		return err
	}

	user, favs := r.app.Profile.User(), r.app.Profile.FavoriteMovies()
	if cmd.Bool("json") {
		return r.writeJSON(struct {
			User      models.User   `json:"user"`
			Favorites models.Movies `json:"favorites"`
		}{user, favs}, true)
	}

	r.writePlainHeader("Profile")
	r.writePlain("Username: %s\n", user.Name)
	r.writePlain("Email:    %s\n", user.Email)
	if user.Birthday != "" {
		r.writePlain("Birthday: %s\n", models.DateText(user.Birthday).Date())
	}
	r.writePlainln("Favorite movies (%d)", len(favs))
	r.writeMovies(favs, user.FavoriteMovies)
	return nil
}

// ProfileEdit sends the given fields; flags left empty are not changed.
func (r *Runner) ProfileEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	return r.app.Profile.Update(ctx, models.UserUpdate{
		Name:     cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	})
}

// ProfileDelete deletes the account after confirmation. --yes skips the prompt.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	confirm := r.confirm
	if cmd.Bool("yes") {
		confirm = func(string) bool { return true }
	}
	return r.app.Profile.Delete(ctx, confirm)
}
