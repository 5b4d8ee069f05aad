package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// Fixed keys of the session_entries table.
const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)

var _ models.SessionStore = (*SessionRepository)(nil)

// SessionRepository implements [models.SessionStore] on the session_entries table.
//
// Reads that fail are logged and reported as a logged-out session.
type SessionRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB, logger *log.Logger) *SessionRepository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SessionRepository{db: db, logger: logger}
}

// Token returns the stored bearer token or "".
func (r *SessionRepository) Token() string {
	token, err := r.get(SessionTokenKey)
	if err != nil {
		r.logger.Warn("failed to read session token", "error", err)
		return ""
	}
	return token
}

// User decodes the stored user snapshot.
func (r *SessionRepository) User() (*models.User, bool) {
	user, err := r.LoadUser()
	if err != nil {
		r.logger.Warn("failed to read session user", "error", err)
		return nil, false
	}
	return user, user != nil
}

// LoadUser is [SessionRepository.User] with the underlying error exposed.
//
// Returns (nil, nil) when no snapshot is stored.
func (r *SessionRepository) LoadUser() (*models.User, error) {
	raw, err := r.get(SessionUserKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCorruptSession, err)
	}
	return &user, nil
}

// SetSession stores token and user in one transaction.
func (r *SessionRepository) SetSession(user models.User, token string) error {
	payload, err := json.Marshal(user.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := put(tx, SessionTokenKey, token, now); err != nil {
		return err
	}
	if err := put(tx, SessionUserKey, string(payload), now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// SetUser overwrites the user snapshot only.
func (r *SessionRepository) SetUser(user models.User) error {
	payload, err := json.Marshal(user.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := put(tx, SessionUserKey, string(payload), time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// Clear deletes both session entries.
func (r *SessionRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM session_entries WHERE key IN (?, ?)", SessionTokenKey, SessionUserKey)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdatedAt returns when the token entry was last written.
func (r *SessionRepository) UpdatedAt() (time.Time, bool) {
	var updatedAt time.Time
	err := r.db.QueryRow("SELECT updated_at FROM session_entries WHERE key = ?", SessionTokenKey).Scan(&updatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return updatedAt, true
}

func (r *SessionRepository) get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM session_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session entry %s: %w", key, err)
	}
	return value, nil
}

func put(tx *sql.Tx, key, value string, now time.Time) error {
	query := `
		INSERT INTO session_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, key, value, now); err != nil {
		return fmt.Errorf("failed to write session entry %s: %w", key, err)
	}
	return nil
}
