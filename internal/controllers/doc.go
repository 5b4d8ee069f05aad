// Package controllers holds the view logic of the myflix screens and dialogs.
//
// Each controller calls the API client and reports back through two small interfaces:
// [Notifier] for transient notices and [Navigator] for switching views. The TUI and the
// CLI both pass a [Recorder], which buffers what the controllers emit until the caller
// renders it.
//
// # Favorites
//
// The favorite set lives in the session user snapshot. [Favorites] writes the change
// to the snapshot first so the UI updates immediately, then lets the client replace it
// with the server's record; on failure the previous snapshot is restored and a notice
// is shown.
//
// # Messages
//
// Notice texts are constants so callers and tests can match them, see [MsgLoginSuccess]
// and friends.
package controllers
