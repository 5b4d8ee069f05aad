package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleMovies() models.Movies {
	return models.Movies{
		{ID: "m1", Title: "Alien", Genre: models.Genre{Name: "Horror"}, Director: models.Director{Name: "Ridley Scott"}},
		{ID: "m2", Title: "Heat", Genre: models.Genre{Name: "Crime"}, Director: models.Director{Name: "Michael Mann"}},
		{ID: "m3", Title: "Blade Runner", Genre: models.Genre{Name: "Science Fiction"}, Director: models.Director{Name: "Ridley Scott"}},
	}
}

func TestSequenceCounter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()

	first, err := nextSequence(tx, "movies")
	if err != nil {
		t.Fatalf("nextSequence() error = %v", err)
	}
	second, err := nextSequence(tx, "movies")
	if err != nil {
		t.Fatalf("nextSequence() error = %v", err)
	}
	if second != first+1 {
		t.Errorf("expected consecutive sequence numbers, got %d then %d", first, second)
	}

	if _, err := nextSequence(tx, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}

func TestSessionRepository(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db, nil)
		if repo.Token() != "" {
			t.Error("expected empty token")
		}
		if _, ok := repo.User(); ok {
			t.Error("expected no user")
		}
	})

	t.Run("SetSession", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db, nil)
		user := models.User{ID: "u1", Name: "alice", Password: "hash", Email: "a@x.com", FavoriteMovies: models.FavoriteList{"m1"}}

		if err := repo.SetSession(user, "tok-1"); err != nil {
			t.Fatalf("SetSession() error = %v", err)
		}

		if repo.Token() != "tok-1" {
			t.Errorf("expected tok-1, got %s", repo.Token())
		}

		got, ok := repo.User()
		if !ok {
			t.Fatal("expected user snapshot")
		}
		if got.Name != "alice" || !got.FavoriteMovies.Contains("m1") {
			t.Errorf("unexpected snapshot %+v", got)
		}
		if got.Password != "" {
			t.Error("snapshot should not persist the password")
		}

		if _, ok := repo.UpdatedAt(); !ok {
			t.Error("expected updated_at for the token entry")
		}
	})

	t.Run("SetSession Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db, nil)
		_ = repo.SetSession(models.User{Name: "alice"}, "old")
		if err := repo.SetSession(models.User{Name: "bob"}, "new"); err != nil {
			t.Fatalf("SetSession() error = %v", err)
		}

		if repo.Token() != "new" {
			t.Errorf("expected new token, got %s", repo.Token())
		}
		got, _ := repo.User()
		if got.Name != "bob" {
			t.Errorf("expected bob, got %s", got.Name)
		}
	})

	t.Run("SetUser Keeps Token", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db, nil)
		_ = repo.SetSession(models.User{Name: "alice"}, "tok")
		if err := repo.SetUser(models.User{Name: "alice", FavoriteMovies: models.FavoriteList{"m2"}}); err != nil {
			t.Fatalf("SetUser() error = %v", err)
		}

		if repo.Token() != "tok" {
			t.Errorf("expected token to be kept, got %q", repo.Token())
		}
		got, _ := repo.User()
		if !got.FavoriteMovies.Contains("m2") {
			t.Errorf("expected updated favorites, got %v", got.FavoriteMovies)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db, nil)
		_ = repo.SetSession(models.User{Name: "alice"}, "tok")

		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if repo.Token() != "" {
			t.Error("expected token to be cleared")
		}
		if _, ok := repo.User(); ok {
			t.Error("expected user to be cleared")
		}
		if err := repo.Clear(); err != nil {
			t.Errorf("clearing an empty session should succeed, got %v", err)
		}
	})

	t.Run("Survives Reopen", func(t *testing.T) {
		path := t.TempDir() + "/session.db"
		cfg := shared.DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1}

		db, err := shared.OpenDatabase(cfg)
		if err != nil {
			t.Fatalf("OpenDatabase() error = %v", err)
		}
		_ = NewSessionRepository(db, nil).SetSession(models.User{Name: "alice"}, "persisted")
		db.Close()

		db, err = shared.OpenDatabase(cfg)
		if err != nil {
			t.Fatalf("OpenDatabase() error = %v", err)
		}
		defer db.Close()

		if got := NewSessionRepository(db, nil).Token(); got != "persisted" {
			t.Errorf("expected persisted token, got %q", got)
		}
	})
}

func TestMovieRepository(t *testing.T) {
	t.Run("ReplaceAll And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		if err := repo.ReplaceAll(sampleMovies()); err != nil {
			t.Fatalf("ReplaceAll() error = %v", err)
		}

		movies, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(movies) != 3 {
			t.Fatalf("expected 3 movies, got %d", len(movies))
		}
		for i, want := range []string{"m1", "m2", "m3"} {
			if movies[i].ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, movies[i].ID)
			}
		}

		if _, ok := repo.CachedAt(); !ok {
			t.Error("expected cached_at after ReplaceAll")
		}
	})

	t.Run("ReplaceAll Drops Stale Rows", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		_ = repo.ReplaceAll(sampleMovies())
		if err := repo.ReplaceAll(sampleMovies()[:1]); err != nil {
			t.Fatalf("ReplaceAll() error = %v", err)
		}

		movies, _ := repo.List()
		if len(movies) != 1 || movies[0].ID != "m1" {
			t.Errorf("expected only m1, got %v", movies)
		}
	})

	t.Run("Lookups", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		_ = repo.ReplaceAll(sampleMovies())

		m, err := repo.GetByTitle("blade runner")
		if err != nil {
			t.Fatalf("GetByTitle() error = %v", err)
		}
		if m.ID != "m3" {
			t.Errorf("expected m3, got %s", m.ID)
		}

		m, err = repo.Get("m2")
		if err != nil || m.Title != "Heat" {
			t.Errorf("Get() = %v, %v", m, err)
		}

		byDirector, err := repo.ListByDirector("ridley scott")
		if err != nil {
			t.Fatalf("ListByDirector() error = %v", err)
		}
		if len(byDirector) != 2 {
			t.Errorf("expected 2 Ridley Scott movies, got %d", len(byDirector))
		}

		byGenre, err := repo.ListByGenre("CRIME")
		if err != nil || len(byGenre) != 1 {
			t.Errorf("ListByGenre() = %v, %v", byGenre, err)
		}
	})

	t.Run("Upsert Keeps Position", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		_ = repo.ReplaceAll(sampleMovies())

		updated := sampleMovies()[0]
		updated.Description = "In space no one can hear you scream."
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}

		movies, _ := repo.List()
		if movies[0].ID != "m1" || movies[0].Description == "" {
			t.Errorf("expected m1 first with new description, got %+v", movies[0])
		}
	})

	t.Run("Errors", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}

		if err := repo.Upsert(models.Movie{ID: "x"}); err == nil {
			t.Error("expected validation error for movie without title")
		}

		if err := repo.ReplaceAll(models.Movies{{ID: "ok", Title: "Ok"}, {Title: "No ID"}}); err == nil {
			t.Error("expected ReplaceAll to fail on an invalid movie")
		}
		movies, _ := repo.List()
		if len(movies) != 0 {
			t.Errorf("failed ReplaceAll should roll back, got %v", movies)
		}
	})
}
