// Package ui implements the interactive myflix terminal client using bubbletea's Elm architecture.
//
// The TUI mirrors the client's screens:
//  1. [WelcomeView] : Choose between logging in and signing up
//  2. [LoginView] / [RegisterView] : Credential and sign-up forms
//  3. [MoviesView] : Browse the catalog, toggle favorites, open genre/director/synopsis dialogs
//  4. [ProfileView] : Show and edit the account, remove favorites, delete the account
//
// Every remote operation runs as a [tea.Cmd] through the controllers in
// [github.com/desertthunder/myflix/internal/controllers]. Their notices and navigation requests
// are collected by a [controllers.Recorder] and drained when the command's result message arrives,
// so notices show up as a snackbar and navigation switches the active view.
//
// Keyboard navigation uses vim-style bindings with contextual help from charmbracelet/bubbles/help.
package ui
