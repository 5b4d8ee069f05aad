package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

func testLogger() *log.Logger { return log.New(io.Discard) }

func newTestAPI(t *testing.T) (*API, *httptest.Server) {
	t.Helper()
	store := NewStore()
	if err := store.SeedMovies(SampleMovies()); err != nil {
		t.Fatalf("SeedMovies() error = %v", err)
	}
	api := NewAPI(store, NewTokenIssuer("test-secret", time.Hour), testLogger())
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return api, srv
}

func call(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func registerAndLogin(t *testing.T, base, name string) string {
	t.Helper()
	resp, body := call(t, http.MethodPost, base+"/users", "", models.Registration{
		Name: name, Password: "p", Email: name + "@x.com", Birthday: "2000-01-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: %d %s", name, resp.StatusCode, body)
	}
	resp, body = call(t, http.MethodPost, base+"/login", "", models.Credentials{Name: name, Password: "p"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", name, resp.StatusCode, body)
	}
	var result models.LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return result.Token
}

func TestAPIAccounts(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		_, srv := newTestAPI(t)

		resp, body := call(t, http.MethodPost, srv.URL+"/users", "", models.Registration{
			Name: "alice", Password: "p", Email: "a@x.com", Birthday: "2000-01-01",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
		}
		var user models.User
		json.Unmarshal(body, &user)
		if user.ID == "" || user.Name != "alice" || user.Password != "" {
			t.Errorf("unexpected user %+v", user)
		}

		resp, _ = call(t, http.MethodPost, srv.URL+"/users", "", models.Registration{Name: "alice", Password: "p", Email: "a@x.com"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for duplicate, got %d", resp.StatusCode)
		}
	})

	t.Run("Register Validation", func(t *testing.T) {
		_, srv := newTestAPI(t)

		resp, body := call(t, http.MethodPost, srv.URL+"/users", "", map[string]string{"Name": "al ice", "Password": "p"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", resp.StatusCode)
		}
		var payload struct {
			Errors []map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) != 2 {
			t.Errorf("expected two field errors, got %s", body)
		}
	})

	t.Run("Login", func(t *testing.T) {
		api, srv := newTestAPI(t)
		token := registerAndLogin(t, srv.URL, "bob")

		bob, err := api.Store().User("bob")
		if err != nil {
			t.Fatalf("User() error = %v", err)
		}
		subject, err := api.Tokens().Verify(token)
		if err != nil || subject != bob.ID {
			t.Errorf("Verify() = %q, %v, want %q", subject, err, bob.ID)
		}

		resp, _ := call(t, http.MethodPost, srv.URL+"/login", "", models.Credentials{Name: "bob", Password: "wrong"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for wrong password, got %d", resp.StatusCode)
		}
	})

	t.Run("Update And Delete", func(t *testing.T) {
		_, srv := newTestAPI(t)
		token := registerAndLogin(t, srv.URL, "carol")

		resp, body := call(t, http.MethodPut, srv.URL+"/users/carol", token, models.UserUpdate{Email: "new@x.com"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var user models.User
		json.Unmarshal(body, &user)
		if user.Email != "new@x.com" {
			t.Errorf("expected updated email, got %s", user.Email)
		}

		resp, body = call(t, http.MethodDelete, srv.URL+"/users/carol", token, nil)
		if resp.StatusCode != http.StatusOK || string(body) != "carol was deleted." {
			t.Errorf("unexpected delete response %d %s", resp.StatusCode, body)
		}

		resp, _ = call(t, http.MethodGet, srv.URL+"/users/carol", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
		}
	})

	t.Run("Rename Keeps Token", func(t *testing.T) {
		_, srv := newTestAPI(t)
		token := registerAndLogin(t, srv.URL, "heidi")
		movieID := SampleMovies()[0].ID

		resp, body := call(t, http.MethodPut, srv.URL+"/users/heidi", token, models.UserUpdate{Name: "heidi2"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("rename: expected 200, got %d: %s", resp.StatusCode, body)
		}

		if resp, body := call(t, http.MethodPost, srv.URL+"/users/heidi2/movies/"+movieID, token, nil); resp.StatusCode != http.StatusOK {
			t.Errorf("add favorite after rename: expected 200, got %d: %s", resp.StatusCode, body)
		}
		if resp, _ := call(t, http.MethodPut, srv.URL+"/users/heidi", token, models.UserUpdate{Email: "h@x.com"}); resp.StatusCode != http.StatusForbidden {
			t.Errorf("old name: expected 403, got %d", resp.StatusCode)
		}
		if resp, body := call(t, http.MethodDelete, srv.URL+"/users/heidi2", token, nil); resp.StatusCode != http.StatusOK {
			t.Errorf("delete after rename: expected 200, got %d: %s", resp.StatusCode, body)
		}
		if resp, _ := call(t, http.MethodPut, srv.URL+"/users/heidi2", token, models.UserUpdate{Email: "h@x.com"}); resp.StatusCode != http.StatusForbidden {
			t.Errorf("deleted account: expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("Other Users Are Read Only", func(t *testing.T) {
		_, srv := newTestAPI(t)
		registerAndLogin(t, srv.URL, "dave")
		token := registerAndLogin(t, srv.URL, "erin")

		if resp, _ := call(t, http.MethodGet, srv.URL+"/users/dave", token, nil); resp.StatusCode != http.StatusOK {
			t.Errorf("expected profile read to succeed, got %d", resp.StatusCode)
		}
		if resp, _ := call(t, http.MethodDelete, srv.URL+"/users/dave", token, nil); resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})
}

func TestAPIAuthentication(t *testing.T) {
	api, srv := newTestAPI(t)

	t.Run("Missing Token", func(t *testing.T) {
		if resp, _ := call(t, http.MethodGet, srv.URL+"/movies", "", nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Bad Signature", func(t *testing.T) {
		forged, _ := NewTokenIssuer("other-secret", time.Hour).Issue("alice")
		if resp, _ := call(t, http.MethodGet, srv.URL+"/movies", forged, nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Expired Token", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", time.Hour)
		issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		expired, err := issuer.Issue("alice")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if _, err := api.Tokens().Verify(expired); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
		if resp, _ := call(t, http.MethodGet, srv.URL+"/movies", expired, nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestAPICatalog(t *testing.T) {
	_, srv := newTestAPI(t)
	token := registerAndLogin(t, srv.URL, "frank")

	t.Run("Movies", func(t *testing.T) {
		resp, body := call(t, http.MethodGet, srv.URL+"/movies", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var movies models.Movies
		if err := json.Unmarshal(body, &movies); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(movies) != len(SampleMovies()) {
			t.Errorf("expected %d movies, got %d", len(SampleMovies()), len(movies))
		}
	})

	tests := []struct {
		name   string
		path   string
		status int
		field  string
		want   string
	}{
		{"Movie By Title", "/movies/The%20Green%20Mile", http.StatusOK, "Title", "The Green Mile"},
		{"Movie Missing", "/movies/Nope", http.StatusNotFound, "message", "Movie not found"},
		{"Genre", "/movies/genres/Drama", http.StatusOK, "Name", "Drama"},
		{"Genre Case Insensitive", "/movies/genres/science%20fiction", http.StatusOK, "Name", "Science Fiction"},
		{"Director", "/movies/directors/Stanley%20Kubrick", http.StatusOK, "Death", "1999-03-07"},
		{"Director Missing", "/movies/directors/Nobody", http.StatusNotFound, "message", "Director not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := call(t, http.MethodGet, srv.URL+tt.path, token, nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.StatusCode, body)
			}
			var payload map[string]any
			json.Unmarshal(body, &payload)
			if payload[tt.field] != tt.want {
				t.Errorf("expected %s=%q, got %v", tt.field, tt.want, payload[tt.field])
			}
		})
	}
}

func TestAPIFavorites(t *testing.T) {
	_, srv := newTestAPI(t)
	token := registerAndLogin(t, srv.URL, "grace")
	movieID := SampleMovies()[0].ID

	favorites := func(body []byte) models.FavoriteList {
		var user models.User
		if err := json.Unmarshal(body, &user); err != nil {
			t.Fatalf("decode user: %v", err)
		}
		return user.FavoriteMovies
	}

	resp, body := call(t, http.MethodPost, srv.URL+"/users/grace/movies/"+movieID, token, nil)
	if resp.StatusCode != http.StatusOK || !favorites(body).Contains(movieID) {
		t.Fatalf("add favorite: %d %s", resp.StatusCode, body)
	}

	resp, body = call(t, http.MethodPost, srv.URL+"/users/grace/movies/"+movieID, token, nil)
	if resp.StatusCode != http.StatusOK || len(favorites(body)) != 1 {
		t.Errorf("adding twice should keep one entry: %s", body)
	}

	if resp, _ := call(t, http.MethodPost, srv.URL+"/users/grace/movies/unknown", token, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown movie, got %d", resp.StatusCode)
	}

	resp, body = call(t, http.MethodDelete, srv.URL+"/users/grace/movies/"+movieID, token, nil)
	if resp.StatusCode != http.StatusOK || favorites(body).Contains(movieID) {
		t.Errorf("remove favorite: %d %s", resp.StatusCode, body)
	}
}

func TestServer(t *testing.T) {
	t.Run("Requires Secret", func(t *testing.T) {
		if _, err := New(shared.ServerConfig{}, testLogger()); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Serve Until Canceled", func(t *testing.T) {
		cfg := shared.DefaultConfig().Server
		srv, err := New(cfg, testLogger())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		resp, _ := call(t, http.MethodGet, "http://"+ln.Addr().String()+"/movies", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 from running server, got %d", resp.StatusCode)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
}

func TestStoreConcurrentLogin(t *testing.T) {
	store := NewStore()
	if _, err := store.CreateUser(models.Registration{Name: "ivan", Password: "p0", Email: "i@x.com"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 3 {
			if _, err := store.UpdateUser("ivan", models.UserUpdate{Password: "p1"}); err != nil {
				t.Errorf("UpdateUser() error = %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 3 {
			store.Authenticate(models.Credentials{Name: "ivan", Password: "p1"})
		}
	}()
	wg.Wait()

	if _, err := store.Authenticate(models.Credentials{Name: "ivan", Password: "p1"}); err != nil {
		t.Errorf("expected the updated password to authenticate, got %v", err)
	}
	if _, err := store.Authenticate(models.Credentials{Name: "ivan", Password: "p0"}); !errors.Is(err, ErrWrongCredentials) {
		t.Errorf("expected the old password rejected, got %v", err)
	}
}
