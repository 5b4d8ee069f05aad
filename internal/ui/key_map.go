package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	next     key.Binding
	back     key.Binding
	login    key.Binding
	register key.Binding
	genre    key.Binding
	director key.Binding
	synopsis key.Binding
	favorite key.Binding
	reload   key.Binding
	profile  key.Binding
	movies   key.Binding
	logout   key.Binding
	edit     key.Binding
	remove   key.Binding
	delete   key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		next:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		register: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign up")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		director: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "director")),
		synopsis: key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("enter", "synopsis")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		movies:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "movies")),
		logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove favorite")),
		delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete account")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.genre, k.director, k.synopsis, k.favorite},
		{k.profile, k.movies, k.logout, k.quit},
	}
}
