package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/myflix/internal/formatter"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the favorite movies of the logged-in user.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	export, err := r.favoritesExport(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export.Movies, true)
	}
	if len(export.Movies) == 0 {
		r.writePlain("%s has no favorite movies yet.\n", export.User.Name)
		return nil
	}
	r.writeMovies(export.Movies, export.User.FavoriteMovies)
	return nil
}

// FavoritesAdd adds a movie given by id or title.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	movie, err := r.resolveMovie(ctx, cmd.StringArg("movie"))
	if err != nil {
		return err
	}
	return r.app.Favorites.Add(ctx, movie)
}

// FavoritesRemove removes a movie given by id or title. An id that is still in the favorites
// is removed even when the catalog no longer lists it.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	ref := strings.TrimSpace(cmd.StringArg("movie"))
	if err := r.connect(); err != nil {
		return err
	}
	if ref != "" && r.app.Favorites.IDs().Contains(ref) {
		return r.app.Favorites.Remove(ctx, models.Movie{ID: ref})
	}

	movie, err := r.resolveMovie(ctx, ref)
	if err != nil {
		return err
	}
	return r.app.Favorites.Remove(ctx, movie)
}

func (r *Runner) resolveMovie(ctx context.Context, ref string) (models.Movie, error) {
	if strings.TrimSpace(ref) == "" {
		return models.Movie{}, fmt.Errorf("%w: movie id or title", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return models.Movie{}, err
	}
	if err := r.requireSession(); err != nil {
		return models.Movie{}, err
	}
	return r.app.Catalog.Resolve(ctx, ref)
}

// favoritesExport fetches the user and the catalog and pairs them up.
func (r *Runner) favoritesExport(ctx context.Context) (*formatter.FavoritesExport, error) {
	if err := r.connect(); err != nil {
		return nil, err
	}
	if err := r.requireSession(); err != nil {
		return nil, err
	}

	user, err := r.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := r.app.Catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return formatter.NewFavoritesExport(*user, movies), nil
}

// FavoritesExport writes the favorites to disk in the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	switch format {
	case "csv", "md", "markdown", "txt", "text", "json":
	default:
		return fmt.Errorf("%w: format must be csv, md, txt or json, got %q", shared.ErrInvalidFlag, format)
	}

	export, err := r.favoritesExport(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("exporting favorites", "user", export.User.Name, "count", len(export.Movies), "format", format)

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Movies written to %s\n", result.MoviesFile)
		r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
	case "md", "markdown":
		result, err := formatter.WriteMarkdownExport(export, output, r.httpClient, cmd.Bool("poster"))
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			r.logger.Warn(w)
		}
		for _, f := range result.Files {
			r.writePlain("✓ Wrote %s\n", f)
		}
	case "txt", "text":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", path)
	case "json":
		path, err := formatter.WriteJSONExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", path)
	}
	return nil
}
