package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// MovieRepository caches the movie catalog in the movies table.
//
// Each row stores the full movie JSON in payload; title, genre and director are copied into
// columns for lookups.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new [MovieRepository] with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// ReplaceAll swaps the cached catalog for movies, preserving their order.
func (r *MovieRepository) ReplaceAll(movies models.Movies) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM movies"); err != nil {
		return fmt.Errorf("failed to clear movie cache: %w", err)
	}

	now := time.Now()
	for _, movie := range movies {
		if err := insertMovie(tx, movie, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movie cache: %w", err)
	}
	return nil
}

// Upsert stores a single movie, keeping its position if it is already cached.
func (r *MovieRepository) Upsert(movie models.Movie) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMovie(tx, movie, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMovie(tx *sql.Tx, movie models.Movie, now time.Time) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("failed to encode movie %s: %w", movie.ID, err)
	}

	sequence, err := nextSequence(tx, "movies")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO movies (id, sequence, title, genre, director, payload, cached_at) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			genre = excluded.genre,
			director = excluded.director,
			payload = excluded.payload,
			cached_at = excluded.cached_at
	`
	_, err = tx.Exec(query, movie.ID, sequence, movie.Title, movie.Genre.Name, movie.Director.Name, string(payload), now)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// List returns the cached catalog in the order it was fetched.
func (r *MovieRepository) List() (models.Movies, error) {
	return r.query("SELECT payload FROM movies ORDER BY sequence ASC")
}

// ListByGenre returns cached movies of the named genre, case-insensitively.
func (r *MovieRepository) ListByGenre(genre string) (models.Movies, error) {
	return r.query("SELECT payload FROM movies WHERE genre = ? COLLATE NOCASE ORDER BY sequence ASC", genre)
}

// ListByDirector returns cached movies by the named director, case-insensitively.
func (r *MovieRepository) ListByDirector(director string) (models.Movies, error) {
	return r.query("SELECT payload FROM movies WHERE director = ? COLLATE NOCASE ORDER BY sequence ASC", director)
}

// Get returns a cached movie by ID.
func (r *MovieRepository) Get(id string) (*models.Movie, error) {
	return r.one("SELECT payload FROM movies WHERE id = ?", id)
}

// GetByTitle returns a cached movie by title, case-insensitively.
func (r *MovieRepository) GetByTitle(title string) (*models.Movie, error) {
	return r.one("SELECT payload FROM movies WHERE title = ? COLLATE NOCASE ORDER BY sequence ASC LIMIT 1", title)
}

// CachedAt returns when the most recent row was written.
func (r *MovieRepository) CachedAt() (time.Time, bool) {
	var cachedAt time.Time
	err := r.db.QueryRow("SELECT cached_at FROM movies ORDER BY cached_at DESC LIMIT 1").Scan(&cachedAt)
	if err != nil {
		return time.Time{}, false
	}
	return cachedAt, true
}

func (r *MovieRepository) one(query string, args ...any) (*models.Movie, error) {
	var payload string
	err := r.db.QueryRow(query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", shared.ErrMovieNotFound, args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query movie: %w", err)
	}

	var movie models.Movie
	if err := json.Unmarshal([]byte(payload), &movie); err != nil {
		return nil, fmt.Errorf("failed to decode cached movie: %w", err)
	}
	return &movie, nil
}

func (r *MovieRepository) query(query string, args ...any) (models.Movies, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := models.Movies{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}

		var movie models.Movie
		if err := json.Unmarshal([]byte(payload), &movie); err != nil {
			return nil, fmt.Errorf("failed to decode cached movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}
