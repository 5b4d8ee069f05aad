// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SessionRepository] : [models.SessionStore] kept as two flat key/value rows, the bearer
//     token under "token" and the JSON user snapshot under "user"
//   - [MovieRepository] : Local copy of the movie catalog, replaced wholesale on every fetch
//     and topped up by single-title lookups
//
// Both repositories expect the schema created by [shared.RunMigrations]. Cached rows are ordered
// by per-table counters kept in dedicated sequence tables.
package repositories
