package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

func TestSessionRepositoryErrors(t *testing.T) {
	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db, nil)
		db.Close()

		if repo.Token() != "" {
			t.Error("expected empty token when the database is closed")
		}
		if _, ok := repo.User(); ok {
			t.Error("expected no user when the database is closed")
		}
		if err := repo.SetSession(models.User{Name: "alice"}, "tok"); err == nil {
			t.Error("expected SetSession to fail on a closed database")
		}
		if err := repo.SetUser(models.User{Name: "alice"}); err == nil {
			t.Error("expected SetUser to fail on a closed database")
		}
		if err := repo.Clear(); err == nil {
			t.Error("expected Clear to fail on a closed database")
		}
	})

	t.Run("Corrupt Snapshot", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := db.Exec("INSERT INTO session_entries (key, value) VALUES (?, ?)", SessionUserKey, "{not json"); err != nil {
			t.Fatalf("failed to seed corrupt entry: %v", err)
		}

		repo := NewSessionRepository(db, nil)
		if _, err := repo.LoadUser(); !errors.Is(err, shared.ErrCorruptSession) {
			t.Errorf("expected ErrCorruptSession, got %v", err)
		}
		if _, ok := repo.User(); ok {
			t.Error("corrupt snapshot should read as logged out")
		}
	})
}

func TestMovieRepositoryErrors(t *testing.T) {
	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMovieRepository(db)
		db.Close()

		if err := repo.ReplaceAll(models.Movies{{ID: "m1", Title: "Alien"}}); err == nil {
			t.Error("expected ReplaceAll to fail on a closed database")
		}
		if _, err := repo.List(); err == nil {
			t.Error("expected List to fail on a closed database")
		}
		if _, err := repo.GetByTitle("Alien"); err == nil {
			t.Error("expected GetByTitle to fail on a closed database")
		}
		if _, ok := repo.CachedAt(); ok {
			t.Error("expected no cached_at on a closed database")
		}
	})

	t.Run("Corrupt Payload", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := db.Exec(`INSERT INTO movies (id, sequence, title, payload, cached_at) VALUES ('bad', 1, 'Bad', '{', CURRENT_TIMESTAMP)`)
		if err != nil {
			t.Fatalf("failed to seed corrupt row: %v", err)
		}

		repo := NewMovieRepository(db)
		if _, err := repo.List(); err == nil {
			t.Error("expected decode error for corrupt payload")
		}
		if _, err := repo.Get("bad"); err == nil {
			t.Error("expected decode error for corrupt payload")
		}
	})
}
