package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgDialogLoaded
	MsgProfileLoaded
	MsgActionDone
	MsgNoticeExpired
)

type moviesLoaded struct {
	movies models.Movies
	err    error
}

type dialogLoaded struct {
	dialog controllers.Dialog
	err    error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies models.Movies, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: moviesLoaded{movies, err}}
}

// dialogLoadedMsg is the constructor for [MsgDialogLoaded]
func dialogLoadedMsg(dialog controllers.Dialog, err error) Msg {
	return Msg{kind: MsgDialogLoaded, data: dialogLoaded{dialog, err}}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(err error) Msg {
	return Msg{kind: MsgProfileLoaded, data: err}
}

// actionDoneMsg is the constructor for [MsgActionDone], sent after a controller call that
// only reports through notices and navigation.
func actionDoneMsg(err error) Msg {
	return Msg{kind: MsgActionDone, data: err}
}

// noticeExpiredMsg is the constructor for [MsgNoticeExpired]
func noticeExpiredMsg(id int) Msg {
	return Msg{kind: MsgNoticeExpired, data: id}
}

func (m Msg) err() error {
	switch d := m.data.(type) {
	case error:
		return d
	case moviesLoaded:
		return d.err
	case dialogLoaded:
		return d.err
	}
	return nil
}
