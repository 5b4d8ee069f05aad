package controllers

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
)

// MovieCache persists the last fetched catalog and single movies looked up by title.
type MovieCache interface {
	ReplaceAll(movies models.Movies) error
	List() (models.Movies, error)
	Upsert(movie models.Movie) error
	Get(id string) (*models.Movie, error)
	GetByTitle(title string) (*models.Movie, error)
}

// DialogKind identifies the popup a [Dialog] is rendered in.
type DialogKind string

const (
	DialogGenre    DialogKind = "genre"
	DialogDirector DialogKind = "director"
	DialogSynopsis DialogKind = "synopsis"
)

// Dialog is the content of a genre, director or synopsis popup.
type Dialog struct {
	Kind     DialogKind
	Title    string
	Subtitle string
	Body     string
}

func GenreDialog(g models.Genre) Dialog {
	return Dialog{Kind: DialogGenre, Title: g.Name, Body: g.Description}
}

func DirectorDialog(d models.Director) Dialog {
	return Dialog{Kind: DialogDirector, Title: d.Name, Subtitle: d.Lifespan(), Body: d.Bio}
}

func SynopsisDialog(m models.Movie) Dialog {
	return Dialog{Kind: DialogSynopsis, Title: m.Title, Body: m.Description}
}

// Catalog is the movie list screen.
type Catalog struct {
	api    services.API
	cache  MovieCache
	notify Notifier
	logger *log.Logger

	mu     sync.RWMutex
	movies models.Movies
}

func NewCatalog(api services.API, cache MovieCache, notify Notifier, logger *log.Logger) *Catalog {
	return &Catalog{api: api, cache: cache, notify: notify, logger: orDiscard(logger)}
}

// Load fetches every movie and writes the result through to the cache.
func (c *Catalog) Load(ctx context.Context) (models.Movies, error) {
	movies, err := c.api.Movies(ctx)
	if err != nil {
		c.notify.Notify(services.GenericMessage)
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.ReplaceAll(movies); err != nil {
			c.logger.Warn("failed to cache movies", "err", err)
		}
	}

	c.set(movies)
	c.logger.Debug("loaded movies", "count", len(movies))
	return slices.Clone(movies), nil
}

// LoadCached reads the catalog from the cache without touching the network.
func (c *Catalog) LoadCached() (models.Movies, error) {
	if c.cache == nil {
		return models.Movies{}, nil
	}
	movies, err := c.cache.List()
	if err != nil {
		return nil, err
	}
	c.set(movies)
	return slices.Clone(movies), nil
}

func (c *Catalog) set(movies models.Movies) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = slices.Clone(movies)
}

// Movies returns the loaded catalog.
func (c *Catalog) Movies() models.Movies {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.movies)
}

// Find resolves a movie in the loaded catalog by identifier, then by title.
func (c *Catalog) Find(ref string) (models.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ref = strings.TrimSpace(ref)
	if m, ok := c.movies.FindByID(ref); ok {
		return m, true
	}
	return c.movies.FindByTitle(ref)
}

// Resolve is [Catalog.Find], loading the catalog first when it is empty. When the API cannot
// answer, the cache is consulted before giving up; a definite not-found is returned as is.
func (c *Catalog) Resolve(ctx context.Context, ref string) (models.Movie, error) {
	if m, ok := c.Find(ref); ok {
		return m, nil
	}
	if len(c.Movies()) == 0 {
		if _, err := c.Load(ctx); err != nil {
			if m, ok := c.cached(ref); ok {
				return m, nil
			}
			return models.Movie{}, err
		}
		if m, ok := c.Find(ref); ok {
			return m, nil
		}
	}

	m, err := c.Movie(ctx, ref)
	if err != nil && !services.IsNotFound(err) {
		if cached, ok := c.cached(ref); ok {
			return cached, nil
		}
	}
	return m, err
}

// cached looks ref up in the cache by identifier, then by title.
func (c *Catalog) cached(ref string) (models.Movie, bool) {
	if c.cache == nil {
		return models.Movie{}, false
	}
	ref = strings.TrimSpace(ref)
	if m, err := c.cache.Get(ref); err == nil {
		c.logger.Debug("using cached movie", "ref", ref)
		return *m, true
	}
	if m, err := c.cache.GetByTitle(ref); err == nil {
		c.logger.Debug("using cached movie", "ref", ref)
		return *m, true
	}
	return models.Movie{}, false
}

// Movie looks a movie up remotely by title and stores the result in the cache.
func (c *Catalog) Movie(ctx context.Context, title string) (models.Movie, error) {
	m, err := c.api.Movie(ctx, title)
	if err != nil {
		c.notify.Notify(services.GenericMessage)
		return models.Movie{}, err
	}
	if c.cache != nil {
		if err := c.cache.Upsert(*m); err != nil {
			c.logger.Warn("failed to cache movie", "title", m.Title, "err", err)
		}
	}
	return *m, nil
}

// Genre looks a genre up remotely by name.
func (c *Catalog) Genre(ctx context.Context, name string) (Dialog, error) {
	g, err := c.api.Genre(ctx, name)
	if err != nil {
		c.notify.Notify(services.GenericMessage)
		return Dialog{}, err
	}
	return GenreDialog(*g), nil
}

// Director looks a director up remotely by name.
func (c *Catalog) Director(ctx context.Context, name string) (Dialog, error) {
	d, err := c.api.Director(ctx, name)
	if err != nil {
		c.notify.Notify(services.GenericMessage)
		return Dialog{}, err
	}
	return DirectorDialog(*d), nil
}
