// Package server implements a sandbox myFlix backend for local development and tests.
//
// # Router Infrastructure
//
// [BasicRouter] wraps [http.ServeMux] method patterns ("GET /movies/{title}") with a
// [Middleware] stack. Middleware wraps handlers in reverse order (last added executes first).
//
// A [Handler] groups related [Route] values so an implementation can register all of its
// endpoints at once; routes flagged Auth are additionally wrapped by the router's
// authentication middleware.
//
// # Sandbox API
//
// [API] serves every endpoint the client uses from an in-memory [Store] seeded with sample
// movies. Passwords are stored as bcrypt hashes and login issues HS256 JWT bearer tokens
// through [TokenIssuer]. Requests that change a user record must carry a token whose
// subject is that user.
//
// # Running
//
// [Server] binds the router to the configured address and shuts down gracefully when
// its context ends. Tests use [API.Handler] with [net/http/httptest] instead.
package server
