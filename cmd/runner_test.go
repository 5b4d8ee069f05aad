package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/server"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	tu "github.com/desertthunder/myflix/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner returns a runner wired to a sandbox API with the user "alice" (password "p"),
// an in-memory database and an in-memory session.
func newTestRunner(t *testing.T, input string) (*Runner, *bytes.Buffer) {
	t.Helper()

	st := server.NewStore()
	if err := st.SeedMovies(server.SampleMovies()); err != nil {
		t.Fatalf("SeedMovies() error = %v", err)
	}
	if _, err := st.CreateUser(models.Registration{Name: "alice", Password: "p", Email: "a@x.com", Birthday: "2000-01-01"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	srv := httptest.NewServer(server.NewAPI(st, server.NewTokenIssuer("test-secret", time.Hour), nil).Handler())
	t.Cleanup(srv.Close)

	config := shared.DefaultConfig()
	config.API.BaseURL = srv.URL
	config.API.RequestsPerSecond = 0
	config.Database.Path = ":memory:"
	config.Session.Store = shared.SessionStoreMemory

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Input:  strings.NewReader(input),
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

// run executes args as a myflix command line against r.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "myflix",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  r.register(),
	}
	return app.Run(context.Background(), append([]string{"myflix"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(r, args...); err != nil {
		t.Fatalf("myflix %s: %v", strings.Join(args, " "), err)
	}
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", &services.APIError{Kind: services.KindAuth}, "log in again with 'myflix login'"},
		{"network", fmt.Errorf("movies: %w", &services.APIError{Kind: services.KindNetwork}), "check that the API at http://api.test is reachable"},
		{"validation", &services.APIError{Kind: services.KindValidation}, "check the values passed on the command line"},
		{"not found", &services.APIError{Kind: services.KindNotFound}, ""},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorHint(tt.err, "http://api.test"); got != tt.want {
				t.Errorf("errorHint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.api != nil || runner.db != nil {
				t.Error("expected connection to be lazy")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("prompt", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Input: strings.NewReader("secret\ny\n")})

		if got, err := runner.prompt("Password"); err != nil || got != "secret" {
			t.Errorf("prompt() = %q, %v", got, err)
		}
		if !runner.confirm("Sure?") {
			t.Error("expected confirmation")
		}
		if runner.confirm("Again?") {
			t.Error("expected no at end of input")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("duplicate command %q", cmd.Name)
			}
			seen[cmd.Name] = true
		}
		for _, name := range []string{"setup", "register", "login", "logout", "status", "movies", "favorites", "profile", "api", "tui", "sandbox"} {
			if !seen[name] {
				t.Errorf("expected command %q", name)
			}
		}
	})
}

func TestAccountCommands(t *testing.T) {
	t.Run("status without session", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "status")
		if !strings.Contains(out.String(), "Not logged in.") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "register", "-u", "bob", "-p", "pw", "-e", "bob@x.com", "-b", "1990-05-01")
		if !strings.Contains(out.String(), controllers.MsgSignUpSuccess) {
			t.Errorf("expected sign up notice, got %q", out.String())
		}
	})

	t.Run("register duplicate", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		if err := run(r, "register", "-u", "alice", "-p", "pw", "-e", "a@x.com"); err == nil {
			t.Fatal("expected error for duplicate user")
		}
		if !strings.Contains(out.String(), "already exists") {
			t.Errorf("expected server message, got %q", out.String())
		}
	})

	t.Run("login with prompt and status", func(t *testing.T) {
		r, out := newTestRunner(t, "p\n")
		mustRun(t, r, "login", "-u", "alice")
		if !strings.Contains(out.String(), controllers.MsgLoginSuccess) {
			t.Errorf("expected login notice, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "status")
		output := out.String()
		if !strings.Contains(output, "User:      alice") {
			t.Errorf("expected user in status, got %q", output)
		}
		if strings.Contains(output, "Expires:   unknown") {
			t.Errorf("expected token expiry, got %q", output)
		}
		if !strings.Contains(output, "Since:") {
			t.Errorf("expected login time, got %q", output)
		}
	})

	t.Run("login failure", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		if err := run(r, "login", "-u", "alice", "-p", "nope"); err == nil {
			t.Fatal("expected login error")
		}
		if !strings.Contains(out.String(), controllers.MsgLoginFailed) {
			t.Errorf("expected failure notice, got %q", out.String())
		}
	})

	t.Run("logout", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")
		mustRun(t, r, "logout")
		if !strings.Contains(out.String(), controllers.MsgLoggedOut) {
			t.Errorf("expected logout notice, got %q", out.String())
		}

		err := run(r, "movies", "list")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	inception, _ := server.SampleMovies().FindByTitle("Inception")

	t.Run("list and cached list", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		out.Reset()
		mustRun(t, r, "movies", "list")
		if !strings.Contains(out.String(), "Inception") {
			t.Errorf("expected catalog, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "movies", "list", "--cached", "--genre", inception.Genre.Name)
		output := out.String()
		if !strings.Contains(output, "Inception") || strings.Contains(output, "The Green Mile") {
			t.Errorf("expected only cached %s movies, got %q", inception.Genre.Name, output)
		}
	})

	t.Run("filters", func(t *testing.T) {
		movies := server.SampleMovies()
		got := filterMovies(movies, "", inception.Director.Name)
		for _, m := range got {
			if m.Director.Name != inception.Director.Name {
				t.Errorf("unexpected movie %s", m.Title)
			}
		}
		if len(filterMovies(movies, "", "")) != len(movies) {
			t.Error("expected no filtering without criteria")
		}
	})

	t.Run("get genre director synopsis", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		out.Reset()
		mustRun(t, r, "movies", "get", "Inception")
		if !strings.Contains(out.String(), inception.ID) {
			t.Errorf("expected movie id, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "movies", "genre", inception.Genre.Name)
		if !strings.Contains(out.String(), inception.Genre.Description) {
			t.Errorf("expected genre description, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "movies", "director", inception.Director.Name)
		if !strings.Contains(out.String(), inception.Director.Lifespan()) {
			t.Errorf("expected lifespan, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "movies", "synopsis", inception.ID)
		if !strings.Contains(out.String(), inception.Description) {
			t.Errorf("expected synopsis, got %q", out.String())
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		r, _ := newTestRunner(t, "")
		if err := run(r, "movies", "get"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	inception, _ := server.SampleMovies().FindByTitle("Inception")

	t.Run("add list remove", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		mustRun(t, r, "favorites", "add", "inception")
		if !strings.Contains(out.String(), controllers.MsgFavoriteAdded) {
			t.Errorf("expected added notice, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "favorites", "list")
		if !strings.Contains(out.String(), "★") || !strings.Contains(out.String(), "Inception") {
			t.Errorf("expected favorite listed, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "favorites", "remove", inception.ID)
		if !strings.Contains(out.String(), controllers.MsgFavoriteRemoved) {
			t.Errorf("expected removed notice, got %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "favorites", "list")
		if !strings.Contains(out.String(), "no favorite movies") {
			t.Errorf("expected empty favorites, got %q", out.String())
		}
	})

	t.Run("export", func(t *testing.T) {
		r, _ := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")
		mustRun(t, r, "favorites", "add", inception.ID)

		path := filepath.Join(t.TempDir(), "favs.txt")
		mustRun(t, r, "favorites", "export", "--format", "txt", "-o", path)
		if !strings.Contains(tu.MustReadFile(t, path), "Inception") {
			t.Error("expected exported movie")
		}

		base := filepath.Join(t.TempDir(), "alice")
		mustRun(t, r, "favorites", "export", "-o", base)
		tu.AssertFileExists(t, base+"_favorites.csv")
		tu.AssertFileExists(t, base+"_metadata.json")
	})

	t.Run("invalid format", func(t *testing.T) {
		r, _ := newTestRunner(t, "")
		if err := run(r, "favorites", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestProfileCommands(t *testing.T) {
	t.Run("show and edit", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		out.Reset()
		mustRun(t, r, "profile", "show")
		if !strings.Contains(out.String(), "Username: alice") || !strings.Contains(out.String(), "Birthday: 2000-01-01") {
			t.Errorf("unexpected profile %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "profile", "edit", "--email", "new@x.com")
		if !strings.Contains(out.String(), controllers.MsgUserUpdated) {
			t.Errorf("expected updated notice, got %q", out.String())
		}
		if user, _ := r.api.Session().User(); user.Email != "new@x.com" {
			t.Errorf("expected session email updated, got %q", user.Email)
		}
	})

	t.Run("delete declined", func(t *testing.T) {
		r, _ := newTestRunner(t, "n\n")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		if err := run(r, "profile", "delete"); !errors.Is(err, shared.ErrCanceled) {
			t.Errorf("expected ErrCanceled, got %v", err)
		}
		if r.api.Session().Token() == "" {
			t.Error("expected session kept")
		}
	})

	t.Run("delete confirmed", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")
		mustRun(t, r, "profile", "delete", "--yes")

		if !strings.Contains(out.String(), controllers.MsgUserDeleted) {
			t.Errorf("expected deleted notice, got %q", out.String())
		}
		if r.api.Session().Token() != "" {
			t.Error("expected session cleared")
		}
		if err := run(r, "login", "-u", "alice", "-p", "p"); err == nil {
			t.Error("expected deleted user to be unable to log in")
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		out.Reset()
		mustRun(t, r, "api", "get", "movies")
		if !strings.Contains(out.String(), `"Title": "Inception"`) {
			t.Errorf("expected pretty JSON, got %q", out.String())
		}
	})

	t.Run("get not found prints body", func(t *testing.T) {
		r, out := newTestRunner(t, "")
		mustRun(t, r, "login", "-u", "alice", "-p", "p")

		out.Reset()
		err := run(r, "api", "get", "/movies/Nope")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(out.String(), "message") {
			t.Errorf("expected error body, got %q", out.String())
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		r, _ := newTestRunner(t, "")
		if err := run(r, "api", "post", "-d", "{nope", "/users"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	defer tu.MustChdir(t, originalDir)

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
	mustRun(t, r, "setup", "-c", "custom.toml")

	tu.AssertFileExists(t, "custom.toml")
	tu.AssertFileExists(t, r.config.Database.Path)
	if !strings.Contains(output.String(), "Database ready") {
		t.Errorf("unexpected output %q", output.String())
	}

	t.Run("Rollback", func(t *testing.T) {
		output.Reset()
		mustRun(t, r, "setup", "-c", "custom.toml", "--rollback")
		if !strings.Contains(output.String(), "Rolled back one migration (1 remaining)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Rollback Needs Config", func(t *testing.T) {
		if err := run(r, "setup", "-c", "missing.toml", "--rollback"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}
