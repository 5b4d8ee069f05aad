package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/myflix/internal/models"
)

var (
	_ list.Item = movieItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return styles.star.Render("★ ") + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := i.movie.Genre.Name
	if i.movie.Director.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.Director.Name)
	}
	return desc
}

// movieItems builds list items, marking the movies in favs.
func movieItems(movies models.Movies, favs models.FavoriteList) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, favorite: favs.Contains(m.ID)}
	}
	return items
}

func newMovieList(title string, movies models.Movies, favs models.FavoriteList, width, height int) list.Model {
	l := list.New(movieItems(movies, favs), list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

func selectedMovie(l list.Model) (models.Movie, bool) {
	if item, ok := l.SelectedItem().(movieItem); ok {
		return item.movie, true
	}
	return models.Movie{}, false
}
