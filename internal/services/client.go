package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/time/rate"
)

// ClientOpts configures [NewClient].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    models.SessionStore
	// RateLimit is requests per second; zero or less disables limiting.
	RateLimit float64
	Burst     int
	Logger    *log.Logger
}

// Client talks to the myFlix API.
type Client struct {
	baseURL string
	public  *http.Client
	authed  *http.Client
	session models.SessionStore
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient validates the base URL and builds a client. A nil session gets an in-memory store.
func NewClient(opts ClientOpts) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	store := opts.Session
	if store == nil {
		store = session.NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{
		baseURL: base,
		public:  hc,
		authed:  bearerClient(hc, store),
		session: store,
		logger:  logger,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Session() models.SessionStore { return c.session }

type request struct {
	op     string
	method string
	path   string
	body   any
	auth   bool
}

// send performs the request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, r request) (int, http.Header, []byte, error) {
	var reader io.Reader
	if r.body != nil {
		if v, ok := r.body.(models.Validator); ok {
			if err := v.Validate(); err != nil {
				return 0, nil, nil, &APIError{Kind: KindValidation, Op: r.op, Err: err}
			}
		}
		payload, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, nil, &APIError{Kind: KindValidation, Op: r.op, Err: fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)}
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, nil, c.fail(transportError(r.op, err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return 0, nil, nil, &APIError{Kind: KindNetwork, Op: r.op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.public
	if r.auth {
		hc = c.authed
	}

	c.logger.Debug("request", "op", r.op, "method", r.method, "path", r.path)
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, nil, c.fail(transportError(r.op, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, c.fail(&APIError{
			Kind: KindNetwork, Op: r.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, resp.Header, body, c.fail(statusError(r.op, resp.StatusCode, body))
	}
	return resp.StatusCode, resp.Header, body, nil
}

// do sends the request and decodes a 2xx body into out, validating it when out is a [models.Validator].
func (c *Client) do(ctx context.Context, r request, out any) error {
	_, _, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return c.decode(r.op, body, out)
}

func (c *Client) decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(&APIError{Kind: KindDecode, Op: op, Body: strings.TrimSpace(string(body)), Err: err})
	}
	if v, ok := out.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return c.fail(&APIError{Kind: KindDecode, Op: op, Err: err})
		}
	}
	return nil
}

func (c *Client) fail(err *APIError) *APIError {
	c.logger.Error("api request failed", "op", err.Op, "kind", err.Kind, "status", err.StatusCode, "body", err.Body, "err", err.Err)
	return err
}

// sessionUser returns the stored user or a [KindAuth] error.
func (c *Client) sessionUser(op string) (*models.User, error) {
	user, ok := c.session.User()
	if !ok || user.Name == "" {
		return nil, c.fail(&APIError{Kind: KindAuth, Op: op, Err: shared.ErrNoSession})
	}
	return user, nil
}

func (c *Client) storeUser(op string, user models.User) error {
	if err := c.session.SetUser(user.Snapshot()); err != nil {
		c.logger.Warn("failed to store session user", "op", op, "err", err)
		return err
	}
	return nil
}

func userPath(name string) string { return "/users/" + url.PathEscape(name) }

func favoritePath(name, movieID string) string {
	return userPath(name) + "/movies/" + url.PathEscape(movieID)
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{op: "register", method: http.MethodPost, path: "/users", body: reg}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var result models.LoginResult
	if err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "/login", body: creds}, &result); err != nil {
		return nil, err
	}
	if err := c.session.SetSession(result.User.Snapshot(), result.Token); err != nil {
		return nil, c.fail(&APIError{Kind: KindDecode, Op: "login", Err: err})
	}
	c.logger.Info("logged in", "user", result.User.Name)
	return &result, nil
}

func (c *Client) Movies(ctx context.Context) (models.Movies, error) {
	var movies models.Movies
	if err := c.do(ctx, request{op: "movies", method: http.MethodGet, path: "/movies", auth: true}, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = models.Movies{}
	}
	return movies, nil
}

func (c *Client) Movie(ctx context.Context, title string) (*models.Movie, error) {
	var movie models.Movie
	r := request{op: "movie", method: http.MethodGet, path: "/movies/" + url.PathEscape(title), auth: true}
	if err := c.do(ctx, r, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Director accepts either a bare director record or a movie carrying one.
func (c *Client) Director(ctx context.Context, name string) (*models.Director, error) {
	r := request{op: "director", method: http.MethodGet, path: "/movies/directors/" + url.PathEscape(name), auth: true}
	_, _, body, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	var director models.Director
	if err := json.Unmarshal(body, &director); err != nil || director.Name == "" {
		var wrapped struct {
			Director models.Director `json:"Director"`
		}
		if err := c.decode(r.op, body, &wrapped); err != nil {
			return nil, err
		}
		director = wrapped.Director
	}
	if err := director.Validate(); err != nil {
		return nil, c.fail(&APIError{Kind: KindDecode, Op: r.op, Err: err})
	}
	return &director, nil
}

// Genre accepts either a bare genre record or a movie carrying one.
func (c *Client) Genre(ctx context.Context, name string) (*models.Genre, error) {
	r := request{op: "genre", method: http.MethodGet, path: "/movies/genres/" + url.PathEscape(name), auth: true}
	_, _, body, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	var genre models.Genre
	if err := json.Unmarshal(body, &genre); err != nil || genre.Name == "" {
		var wrapped struct {
			Genre models.Genre `json:"Genre"`
		}
		if err := c.decode(r.op, body, &wrapped); err != nil {
			return nil, err
		}
		genre = wrapped.Genre
	}
	if err := genre.Validate(); err != nil {
		return nil, c.fail(&APIError{Kind: KindDecode, Op: r.op, Err: err})
	}
	return &genre, nil
}

func (c *Client) User(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{op: "user", method: http.MethodGet, path: userPath(username), auth: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	current, err := c.sessionUser("current user")
	if err != nil {
		return nil, err
	}
	user, err := c.User(ctx, current.Name)
	if err != nil {
		return nil, err
	}
	if err := c.storeUser("current user", *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) AddFavorite(ctx context.Context, movieID string) (*models.User, error) {
	return c.mutateUser(ctx, "add favorite", http.MethodPost, func(u *models.User) string {
		return favoritePath(u.Name, movieID)
	}, nil, "")
}

func (c *Client) RemoveFavorite(ctx context.Context, movieID string) (*models.User, error) {
	return c.mutateUser(ctx, "remove favorite", http.MethodDelete, func(u *models.User) string {
		return favoritePath(u.Name, movieID)
	}, nil, "")
}

func (c *Client) EditUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return nil, c.fail(&APIError{Kind: KindValidation, Op: "edit user", Err: fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)})
	}
	return c.mutateUser(ctx, "edit user", http.MethodPut, func(u *models.User) string {
		return userPath(u.Name)
	}, update, update.Name)
}

// mutateUser sends a request scoped to the session user and stores the resulting record.
//
// When the response body is not a user record the profile is re-fetched, under renamed
// when the mutation changed the username.
func (c *Client) mutateUser(ctx context.Context, op, method string, path func(*models.User) string, body any, renamed string) (*models.User, error) {
	current, err := c.sessionUser(op)
	if err != nil {
		return nil, err
	}

	_, _, raw, err := c.send(ctx, request{op: op, method: method, path: path(current), body: body, auth: true})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil || user.Validate() != nil {
		name := current.Name
		if renamed != "" {
			name = renamed
		}
		c.logger.Debug("mutation response is not a user record, re-fetching", "op", op, "user", name)
		fetched, err := c.User(ctx, name)
		if err != nil {
			return nil, err
		}
		user = *fetched
	}

	if err := c.storeUser(op, user); err != nil {
		return nil, &APIError{Kind: KindDecode, Op: op, Err: err}
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context) error {
	current, err := c.sessionUser("delete user")
	if err != nil {
		return err
	}
	if err := c.do(ctx, request{op: "delete user", method: http.MethodDelete, path: userPath(current.Name), auth: true}, nil); err != nil {
		return err
	}
	if err := c.session.Clear(); err != nil {
		return &APIError{Kind: KindDecode, Op: "delete user", Err: err}
	}
	c.logger.Info("account deleted", "user", current.Name)
	return nil
}
