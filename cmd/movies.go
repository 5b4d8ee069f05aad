package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// MoviesList prints the catalog, from the API or from the local cache with --cached.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	genre, director := cmd.String("genre"), cmd.String("director")

	var movies models.Movies
	var err error
	if cmd.Bool("cached") {
		movies, err = r.cachedMovies(genre, director)
		if err != nil {
			return err
		}
	} else {
		if err := r.requireSession(); err != nil {
			return err
		}
		if movies, err = r.app.Catalog.Load(ctx); err != nil {
			return err
		}
		movies = filterMovies(movies, genre, director)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	if len(movies) == 0 {
		r.writePlain("No movies found.\n")
		return nil
	}
	r.writeMovies(movies, r.app.Favorites.IDs())
	return nil
}

func (r *Runner) cachedMovies(genre, director string) (models.Movies, error) {
	var movies models.Movies
	var err error
	switch {
	case genre != "":
		movies, err = r.movies.ListByGenre(genre)
		movies = filterMovies(movies, "", director)
	case director != "":
		movies, err = r.movies.ListByDirector(director)
	default:
		movies, err = r.app.Catalog.LoadCached()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read movie cache: %w", err)
	}

	if at, ok := r.movies.CachedAt(); ok {
		r.logger.Info("using cached catalog", "cached_at", at.Local().Format(time.RFC822), "count", len(movies))
	} else {
		r.logger.Warn("movie cache is empty, run 'myflix movies list' while logged in")
	}
	return movies, nil
}

func filterMovies(movies models.Movies, genre, director string) models.Movies {
	if genre == "" && director == "" {
		return movies
	}
	out := models.Movies{}
	for _, m := range movies {
		if genre != "" && !strings.EqualFold(m.Genre.Name, genre) {
			continue
		}
		if director != "" && !strings.EqualFold(m.Director.Name, director) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *Runner) writeMovies(movies models.Movies, favs models.FavoriteList) {
	for i, m := range movies {
		star := " "
		if favs.Contains(m.ID) {
			star = "★"
		}
		r.writePlain("%s %2d. %s (%s) - %s\n", star, i+1, m.Title, m.Genre.Name, m.Director.Name)
		r.writePlain("       id: %s\n", m.ID)
	}
}

// MoviesGet prints one movie looked up by title.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	movie, err := r.app.Catalog.Movie(ctx, title)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	r.writePlainHeader(movie.Title)
	r.writePlain("ID:       %s\n", movie.ID)
	r.writePlain("Genre:    %s\n", movie.Genre.Name)
	r.writePlain("Director: %s\n", movie.Director.Name)
	if movie.Featured {
		r.writePlain("Featured: yes\n")
	}
	if movie.ImagePath != "" {
		r.writePlain("Poster:   %s\n", movie.ImagePath)
	}
	if movie.Description != "" {
		r.writePlainln("%s", movie.Description)
	}
	return nil
}

// MoviesGenre prints the genre dialog.
func (r *Runner) MoviesGenre(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: genre name", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	d, err := r.app.Catalog.Genre(ctx, name)
	if err != nil {
		return err
	}
	r.writeDialog(d)
	return nil
}

// MoviesDirector prints the director dialog.
func (r *Runner) MoviesDirector(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: director name", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	d, err := r.app.Catalog.Director(ctx, name)
	if err != nil {
		return err
	}
	r.writeDialog(d)
	return nil
}

// MoviesSynopsis prints the synopsis dialog of a movie given by id or title.
func (r *Runner) MoviesSynopsis(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("movie")
	if ref == "" {
		return fmt.Errorf("%w: movie id or title", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	movie, err := r.app.Catalog.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	r.writeDialog(controllers.SynopsisDialog(movie))
	return nil
}

func (r *Runner) writeDialog(d controllers.Dialog) {
	r.writePlainHeader(d.Title)
	if d.Subtitle != "" {
		r.writePlain("%s\n", d.Subtitle)
	}
	if d.Body != "" {
		r.writePlainln("%s", d.Body)
	}
}
