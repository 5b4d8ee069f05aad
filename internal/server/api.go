package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// API serves the myFlix endpoints from a [Store].
type API struct {
	store  *Store
	tokens *TokenIssuer
	logger *log.Logger
}

func NewAPI(store *Store, tokens *TokenIssuer, logger *log.Logger) *API {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &API{store: store, tokens: tokens, logger: logger}
}

// Store returns the backing store.
func (a *API) Store() *Store { return a.store }

// Tokens returns the issuer used for login and authentication.
func (a *API) Tokens() *TokenIssuer { return a.tokens }

// Routes implements [Handler].
func (a *API) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/users", Handler: a.register},
		{Method: http.MethodPost, Path: "/login", Handler: a.login},
		{Method: http.MethodGet, Path: "/movies", Auth: true, Handler: a.listMovies},
		{Method: http.MethodGet, Path: "/movies/{title}", Auth: true, Handler: a.getMovie},
		{Method: http.MethodGet, Path: "/movies/genres/{name}", Auth: true, Handler: a.getGenre},
		{Method: http.MethodGet, Path: "/movies/directors/{name}", Auth: true, Handler: a.getDirector},
		{Method: http.MethodGet, Path: "/users/{username}", Auth: true, Handler: a.getUser},
		{Method: http.MethodPut, Path: "/users/{username}", Auth: true, Handler: a.updateUser},
		{Method: http.MethodDelete, Path: "/users/{username}", Auth: true, Handler: a.deleteUser},
		{Method: http.MethodPost, Path: "/users/{username}/movies/{movieId}", Auth: true, Handler: a.addFavorite},
		{Method: http.MethodDelete, Path: "/users/{username}/movies/{movieId}", Auth: true, Handler: a.removeFavorite},
	}
}

// Handler returns a router serving every route with logging, request ids and panic recovery.
func (a *API) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(Recoverer(a.logger), RequestID, RequestLogger(a.logger))
	r.RequireAuth(a.tokens.Authenticate)
	r.Handler(a)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeValidation(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		errs := make([]map[string]string, 0, len(verr.Fields))
		for field, msg := range verr.Fields {
			errs = append(errs, map[string]string{"path": field, "msg": msg})
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

// decodeBody reads a JSON body into v and validates it.
func decodeBody(r *http.Request, v models.Validator) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Join(shared.ErrInvalidInput, err)
	}
	return v.Validate()
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decodeBody(r, &reg); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := a.store.CreateUser(reg)
	switch {
	case errors.Is(err, ErrUserExists):
		writeError(w, http.StatusBadRequest, reg.Name+" already exists")
		return
	case err != nil:
		a.logger.Error("failed to create user", "err", err)
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Something is not right")
		return
	}

	user, err := a.store.Authenticate(creds)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Incorrect username or password.")
		return
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.logger.Error("failed to issue token", "err", err)
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{User: user, Token: token})
}

func (a *API) listMovies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Movies())
}

func (a *API) getMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := a.store.MovieByTitle(r.PathValue("title"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (a *API) getGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := a.store.GenreByName(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Genre not found")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (a *API) getDirector(w http.ResponseWriter, r *http.Request) {
	director, err := a.store.DirectorByName(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Director not found")
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.User(r.PathValue("username"))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// owner reports whether the authenticated user may modify the account in the path.
// The token carries the user id, so the check holds across renames.
func (a *API) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.PathValue("username")
	id, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "Permission denied")
		return "", false
	}
	user, err := a.store.UserByID(id)
	if err != nil || user.Name != name {
		writeError(w, http.StatusForbidden, "Permission denied")
		return "", false
	}
	return name, true
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	name, ok := a.owner(w, r)
	if !ok {
		return
	}

	var update models.UserUpdate
	if err := decodeBody(r, &update); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := a.store.UpdateUser(name, update)
	switch {
	case errors.Is(err, ErrUserExists):
		writeError(w, http.StatusBadRequest, update.Name+" already exists")
	case errors.Is(err, shared.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	name, ok := a.owner(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteUser(name); err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, name+" was not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, name+" was deleted.")
}

func (a *API) addFavorite(w http.ResponseWriter, r *http.Request) {
	name, ok := a.owner(w, r)
	if !ok {
		return
	}
	user, err := a.store.AddFavorite(name, strings.TrimSpace(r.PathValue("movieId")))
	a.writeFavoriteResult(w, user, err)
}

func (a *API) removeFavorite(w http.ResponseWriter, r *http.Request) {
	name, ok := a.owner(w, r)
	if !ok {
		return
	}
	user, err := a.store.RemoveFavorite(name, strings.TrimSpace(r.PathValue("movieId")))
	a.writeFavoriteResult(w, user, err)
}

func (a *API) writeFavoriteResult(w http.ResponseWriter, user models.User, err error) {
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		writeError(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, shared.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeJSON(w, http.StatusOK, user)
	}
}
