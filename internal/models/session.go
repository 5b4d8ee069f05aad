package models

// SessionStore holds the bearer token and a snapshot of the authenticated user.
//
// Implementations must be safe for concurrent use. Token returns "" when logged out.
type SessionStore interface {
	Token() string                            // Token returns the current bearer token
	User() (*User, bool)                      // User returns a copy of the user snapshot, if any
	SetSession(user User, token string) error // SetSession replaces both token and snapshot
	SetUser(user User) error                  // SetUser replaces the snapshot, keeping the token
	Clear() error                             // Clear removes both token and snapshot
}
