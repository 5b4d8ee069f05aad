package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/repositories"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, session store and API client are opened lazily by [Runner.connect] so that
// commands such as setup and sandbox serve work without them.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader

	db     *sql.DB
	movies *repositories.MovieRepository
	api    *services.Client
	app    *controllers.App
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, registerCommand, loginCommand, logoutCommand, statusCommand,
		moviesCommand, favoritesCommand, profileCommand, apiCommand, tuiCommand, sandboxCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// connect opens the local database, the session store and the API client once per process.
func (r *Runner) connect() error {
	if r.api != nil {
		return nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}

	var store models.SessionStore
	switch r.config.Session.Store {
	case shared.SessionStoreMemory:
		store = session.NewMemoryStore()
	default:
		store = repositories.NewSessionRepository(db, shared.WithLogger(r.logger, "component", "session"))
	}

	api, err := services.NewClient(services.ClientOpts{
		BaseURL:    r.config.API.BaseURL,
		HTTPClient: r.httpClient,
		Session:    store,
		RateLimit:  r.config.API.RequestsPerSecond,
		Burst:      r.config.API.Burst,
		Logger:     shared.WithLogger(r.logger, "component", "api"),
	})
	if err != nil {
		db.Close()
		return err
	}

	r.db = db
	r.movies = repositories.NewMovieRepository(db)
	r.api = api
	r.app = controllers.NewApp(api, r.movies, r, r, r.logger)
	r.logger.Debug("connected", "api", api.BaseURL(), "session", r.config.Session.Store)
	return nil
}

// Close releases the database handle.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Notify prints controller notices as a line of output.
func (r *Runner) Notify(message string) {
	r.writePlain("%s\n", message)
}

// Navigate has no view to switch in the CLI.
func (r *Runner) Navigate(route controllers.Route) {
	r.logger.Debug("view change", "route", route)
}

// prompt writes label and reads one line of input.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s: ", label)
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (r *Runner) confirm(question string) bool {
	answer, err := r.prompt(question + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// errorHint suggests a next step for API failures, or returns "" when there is none.
func errorHint(err error, baseURL string) string {
	switch {
	case services.IsAuth(err):
		return "log in again with 'myflix login'"
	case services.IsNetwork(err):
		return fmt.Sprintf("check that the API at %s is reachable", baseURL)
	case services.IsValidation(err):
		return "check the values passed on the command line"
	}
	return ""
}

var (
	_ controllers.Notifier  = (*Runner)(nil)
	_ controllers.Navigator = (*Runner)(nil)
)
