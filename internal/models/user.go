package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

const birthdayLayout = "2006-01-02"

// User is an account profile as returned by the API.
type User struct {
	ID             string       `json:"_id,omitempty"`
	Name           string       `json:"Name" validate:"required"`
	Password       string       `json:"Password,omitempty" validate:"-"`
	Email          string       `json:"Email,omitempty" validate:"omitempty,email"`
	Birthday       string       `json:"Birthday,omitempty"`
	FavoriteMovies FavoriteList `json:"FavoriteMovies"`
}

func (u User) Validate() error { return validateStruct("user", u) }

// Snapshot returns a copy suitable for the session store: the password (hash) is dropped
// and the favorites slice is not shared with the receiver.
func (u User) Snapshot() User {
	u.Password = ""
	u.FavoriteMovies = slices.Clone(u.FavoriteMovies)
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = FavoriteList{}
	}
	return u
}

// BirthdayDate parses the birthday, accepting both "2006-01-02" and full ISO timestamps.
func (u User) BirthdayDate() (time.Time, bool) {
	s := DateText(u.Birthday).Date()
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(birthdayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FavoriteList holds favorite movie identifiers.
//
// It decodes from an array of identifier strings, an array of movie objects, or a mix of both.
type FavoriteList []string

// UnmarshalJSON normalizes raw identifiers and populated movie objects into identifiers.
func (f *FavoriteList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FavoriteList{}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("favorite movies must be an array: %w", err)
	}

	ids := make(FavoriteList, 0, len(entries))
	for i, entry := range entries {
		id, err := favoriteID(entry)
		if err != nil {
			return fmt.Errorf("favorite movie %d: %w", i, err)
		}
		if id != "" && !ids.Contains(id) {
			ids = append(ids, id)
		}
	}
	*f = ids
	return nil
}

func favoriteID(entry json.RawMessage) (string, error) {
	entry = bytes.TrimSpace(entry)
	if len(entry) == 0 {
		return "", nil
	}

	switch entry[0] {
	case '"':
		var id string
		err := json.Unmarshal(entry, &id)
		return id, err
	case '{':
		var obj struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			return "", err
		}
		if obj.MongoID != "" {
			return obj.MongoID, nil
		}
		if obj.ID != "" {
			return obj.ID, nil
		}
		return "", fmt.Errorf("movie object has no identifier")
	case 'n':
		return "", nil
	default:
		return "", fmt.Errorf("unexpected entry %s", string(entry))
	}
}

// Contains reports whether id is in the list.
func (f FavoriteList) Contains(id string) bool {
	return id != "" && slices.Contains(f, id)
}

// With returns a copy that includes id.
func (f FavoriteList) With(id string) FavoriteList {
	out := slices.Clone(f)
	if !out.Contains(id) {
		out = append(out, id)
	}
	return out
}

// Without returns a copy that excludes id.
func (f FavoriteList) Without(id string) FavoriteList {
	out := make(FavoriteList, 0, len(f))
	for _, existing := range f {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Registration holds the fields sent to create an account.
type Registration struct {
	Name     string `json:"Name" validate:"required,alphanum"`
	Password string `json:"Password" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Birthday string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r Registration) Validate() error { return validateStruct("registration", r) }

// Credentials holds the login name and password.
type Credentials struct {
	Name     string `json:"Name" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

func (c Credentials) Validate() error { return validateStruct("credentials", c) }

// UserUpdate is a partial profile edit; empty fields are left unchanged by the server.
type UserUpdate struct {
	Name     string `json:"Name,omitempty" validate:"omitempty,alphanum"`
	Password string `json:"Password,omitempty"`
	Email    string `json:"Email,omitempty" validate:"omitempty,email"`
	Birthday string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (u UserUpdate) Validate() error { return validateStruct("profile update", u) }

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u == UserUpdate{}
}

// LoginResult is the response of the login endpoint.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token" validate:"required"`
}

func (l LoginResult) Validate() error {
	if err := validateStruct("login response", l); err != nil {
		return err
	}
	return l.User.Validate()
}
