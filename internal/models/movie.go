package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Genre describes a movie genre.
type Genre struct {
	Name        string `json:"Name" validate:"required"`
	Description string `json:"Description"`
}

func (g Genre) Validate() error { return validateStruct("genre", g) }

// Director describes a movie director. Birth and Death are kept as display text.
type Director struct {
	Name  string   `json:"Name" validate:"required"`
	Bio   string   `json:"Bio"`
	Birth DateText `json:"Birth,omitempty"`
	Death DateText `json:"Death,omitempty"`
}

func (d Director) Validate() error { return validateStruct("director", d) }

// Lifespan renders "birth - death", "born birth" or "" depending on what is known.
func (d Director) Lifespan() string {
	switch {
	case d.Birth != "" && d.Death != "":
		return fmt.Sprintf("%s - %s", d.Birth.Date(), d.Death.Date())
	case d.Birth != "":
		return fmt.Sprintf("born %s", d.Birth.Date())
	default:
		return ""
	}
}

// Movie is a catalog entry. The client never mutates movies.
type Movie struct {
	ID          string   `json:"_id" validate:"required"`
	Title       string   `json:"Title" validate:"required"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre" validate:"-"`
	Director    Director `json:"Director" validate:"-"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured,omitempty"`
}

func (m Movie) Validate() error { return validateStruct("movie", m) }

// Movies is a decoded catalog listing.
type Movies []Movie

// Validate checks every entry, reporting the first invalid one with its index.
func (ms Movies) Validate() error {
	for i, m := range ms {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("movie %d: %w", i, err)
		}
	}
	return nil
}

// FindByID returns the movie with the given identifier.
func (ms Movies) FindByID(id string) (Movie, bool) {
	for _, m := range ms {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}

// FindByTitle returns the first movie whose title matches case-insensitively.
func (ms Movies) FindByTitle(title string) (Movie, bool) {
	for _, m := range ms {
		if strings.EqualFold(m.Title, strings.TrimSpace(title)) {
			return m, true
		}
	}
	return Movie{}, false
}

// Filter returns the movies whose identifiers appear in favorites, in catalog order.
func (ms Movies) Filter(favorites FavoriteList) Movies {
	out := Movies{}
	for _, m := range ms {
		if favorites.Contains(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// DateText holds a date as returned by the API: an ISO string, a bare year, or null.
type DateText string

// UnmarshalJSON accepts strings, numbers and null.
func (d *DateText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DateText(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("date must be a string, number or null: %w", err)
	}
	*d = DateText(n.String())
	return nil
}

// Date trims an ISO timestamp to its calendar date.
func (d DateText) Date() string {
	s := string(d)
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}
