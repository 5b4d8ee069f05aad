// Package services implements the HTTP client for the myFlix movie API.
//
// # Client
//
// [Client] exposes one method per backend endpoint: registration, login, the movie
// catalog, genre and director lookups, the user profile and the favorites list.
// Request and response bodies are typed records from the models package and are
// validated before they leave or enter the client.
//
// # Session
//
// The client is handed a [models.SessionStore] and owns the writes to it:
//   - Login stores the token and the user snapshot
//   - EditUser, AddFavorite, RemoveFavorite and CurrentUser overwrite the snapshot with the server's record
//   - DeleteUser clears the session
//
// The bearer token is attached by an [oauth2.Transport] whose token source reads the
// store on every request, so a login is visible to the very next call. Registration
// and login use a plain transport and never carry the header.
//
// # Error Handling
//
// Every failure is an [*APIError] tagged with a [Kind]:
//   - [KindNetwork] : the request never produced a response (or the context ended)
//   - [KindAuth] : no token in the session, or the server answered 401/403
//   - [KindValidation] : a request record failed validation, or the server answered 4xx
//   - [KindNotFound] : the server answered 404
//   - [KindServer] : the server answered 5xx
//   - [KindDecode] : the response body was not the expected record
//
// [APIError.Message] returns the generic text shown to users. Nothing is retried.
//
// # Raw Requests
//
// [Client.Raw] performs an arbitrary authenticated request and returns the undecoded
// [APIResponse] for debugging from the command line.
package services
