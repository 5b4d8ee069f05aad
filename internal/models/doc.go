// Package models defines the typed records exchanged with the myFlix API and the session accessor interface.
//
// The package contains three groups of types:
//
// 1. API records, decoded from and validated at the HTTP boundary
//   - [Movie] : Catalog entry with embedded [Genre] and [Director]
//   - [User] : Account profile including the [FavoriteList]
//   - [LoginResult] : Response of the login endpoint (user + bearer token)
//
// 2. Request payloads, validated before they are sent
//   - [Registration] : New account fields
//   - [Credentials] : Login name and password
//   - [UserUpdate] : Partial profile edit; empty fields are omitted from the request body
//
// 3. Session state
//   - [SessionStore] : Accessor for the bearer token and the user snapshot
//
// All records implement [Validator]. Validation uses go-playground/validator struct tags and
// reports failures as [*ValidationError], which wraps [shared.ErrInvalidInput].
//
// [FavoriteList] normalizes the favorites payload: the backend returns either raw movie
// identifiers or populated movie objects, and both decode to a list of identifiers.
package models
