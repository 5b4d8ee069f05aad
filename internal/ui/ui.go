package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	WelcomeView ViewState = iota
	LoginView
	RegisterView
	MoviesView
	DialogView
	ProfileView
	EditView
	ConfirmDeleteView
)

// NoticeTTL is how long a snackbar notice stays visible.
const NoticeTTL = 4 * time.Second

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	app    *controllers.App
	events *controllers.Recorder
	view   ViewState
	width  int
	height int

	movieList list.Model
	favList   list.Model
	dialog    controllers.Dialog
	form      form

	notice       string
	noticeFailed bool
	noticeID     int
	noticeTTL    time.Duration

	help help.Model
	keys keyMap
}

// NewModel wires the controllers to api and returns the TUI model. cache may be nil.
func NewModel(ctx context.Context, api services.API, cache controllers.MovieCache, logger *log.Logger) *Model {
	events := &controllers.Recorder{}
	return &Model{
		ctx:       ctx,
		app:       controllers.NewApp(api, cache, events, events, logger),
		events:    events,
		view:      WelcomeView,
		movieList: newMovieList("Movies", nil, nil, 0, 0),
		favList:   newMovieList("Favorite movies", nil, nil, 0, 0),
		noticeTTL: NoticeTTL,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Notice returns the snackbar message currently shown, if any.
func (m *Model) Notice() string { return m.notice }

// Init starts on the movie list when a session already exists.
func (m *Model) Init() tea.Cmd {
	if m.app.Navbar.IsLoggedIn() {
		m.view = MoviesView
		return m.loadMovies()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		m.favList.SetSize(msg.Width-4, msg.Height-14)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case WelcomeView:
			return m.handleWelcomeKeys(msg)
		case LoginView, RegisterView, EditView:
			return m.handleFormKeys(msg)
		case MoviesView:
			return m.handleMoviesKeys(msg)
		case DialogView:
			return m.handleDialogKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		if data := msg.data.(moviesLoaded); data.err == nil {
			m.movieList.SetItems(movieItems(data.movies, m.app.Favorites.IDs()))
		}
	case MsgDialogLoaded:
		if data := msg.data.(dialogLoaded); data.err == nil {
			m.dialog = data.dialog
			m.view = DialogView
		}
	case MsgProfileLoaded:
		if msg.err() == nil {
			m.favList.SetItems(movieItems(m.app.Profile.FavoriteMovies(), m.app.Favorites.IDs()))
			if m.view == EditView {
				m.view = ProfileView
			}
		}
	case MsgActionDone:
		switch m.view {
		case MoviesView:
			m.refreshFavorites()
		case ProfileView:
			m.favList.SetItems(movieItems(m.app.Profile.FavoriteMovies(), m.app.Favorites.IDs()))
		case RegisterView:
			if msg.err() == nil {
				m.openLogin()
			}
		}
	case MsgNoticeExpired:
		if id, _ := msg.data.(int); id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}
	return m, m.drain(msg.err())
}

// drain shows the latest controller notice and follows the latest navigation request.
func (m *Model) drain(err error) tea.Cmd {
	notices, routes := m.events.Drain()

	var cmds []tea.Cmd
	if len(notices) > 0 {
		m.noticeID++
		m.notice = notices[len(notices)-1]
		m.noticeFailed = err != nil
		id := m.noticeID
		cmds = append(cmds, tea.Tick(m.noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg(id) }))
	}
	if len(routes) > 0 {
		cmds = append(cmds, m.navigate(routes[len(routes)-1]))
	}
	return tea.Batch(cmds...)
}

func (m *Model) navigate(route controllers.Route) tea.Cmd {
	switch route {
	case controllers.RouteMovies:
		m.view = MoviesView
		return m.loadMovies()
	case controllers.RouteProfile:
		m.view = ProfileView
		return m.loadProfile()
	default:
		m.view = WelcomeView
		m.movieList.SetItems(nil)
		m.favList.SetItems(nil)
		return nil
	}
}

func (m *Model) openLogin() {
	m.app.Login.Open()
	m.form = newForm("Log in", "Username", "Password")
	m.view = LoginView
}

func (m *Model) openRegister() {
	m.app.Registration.Open()
	m.form = newForm("Sign up", "Username", "Password", "Email", "Birthday")
	m.view = RegisterView
}

func (m *Model) openEdit() {
	current := m.app.Profile.Form()
	m.form = newForm("Update profile", "Username", "Password", "Email", "Birthday")
	m.form.set("Username", current.Name)
	m.form.set("Email", current.Email)
	m.form.set("Birthday", current.Birthday)
	m.view = EditView
}

func (m *Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		m.openLogin()
	case key.Matches(msg, m.keys.register):
		m.openRegister()
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		switch m.view {
		case LoginView:
			m.app.Login.Close()
			m.view = WelcomeView
		case RegisterView:
			m.app.Registration.Close()
			m.view = WelcomeView
		case EditView:
			m.view = ProfileView
		}
		return m, nil
	case "enter":
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m *Model) submitForm() tea.Cmd {
	ctx, app, f := m.ctx, m.app, m.form
	switch m.view {
	case LoginView:
		creds := models.Credentials{Name: f.value("Username"), Password: f.value("Password")}
		return func() tea.Msg {
			_, err := app.Login.Submit(ctx, creds)
			return actionDoneMsg(err)
		}
	case RegisterView:
		reg := models.Registration{
			Name:     f.value("Username"),
			Password: f.value("Password"),
			Email:    f.value("Email"),
			Birthday: f.value("Birthday"),
		}
		return func() tea.Msg {
			_, err := app.Registration.Submit(ctx, reg)
			return actionDoneMsg(err)
		}
	case EditView:
		update := changedFields(app.Profile.Form(), models.UserUpdate{
			Name:     f.value("Username"),
			Password: f.value("Password"),
			Email:    f.value("Email"),
			Birthday: f.value("Birthday"),
		})
		return func() tea.Msg {
			return profileLoadedMsg(app.Profile.Update(ctx, update))
		}
	}
	return nil
}

// changedFields keeps only the fields of next that differ from current.
func changedFields(current, next models.UserUpdate) models.UserUpdate {
	var update models.UserUpdate
	if next.Name != current.Name {
		update.Name = next.Name
	}
	if next.Email != current.Email {
		update.Email = next.Email
	}
	if next.Birthday != current.Birthday {
		update.Birthday = next.Birthday
	}
	update.Password = next.Password
	return update
}

func (m *Model) handleMoviesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	ctx, app := m.ctx, m.app
	movie, selected := selectedMovie(m.movieList)
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.synopsis) && selected:
		m.dialog = controllers.SynopsisDialog(movie)
		m.view = DialogView
		return m, nil
	case key.Matches(msg, m.keys.genre) && selected:
		return m, func() tea.Msg {
			d, err := app.Catalog.Genre(ctx, movie.Genre.Name)
			return dialogLoadedMsg(d, err)
		}
	case key.Matches(msg, m.keys.director) && selected:
		return m, func() tea.Msg {
			d, err := app.Catalog.Director(ctx, movie.Director.Name)
			return dialogLoadedMsg(d, err)
		}
	case key.Matches(msg, m.keys.favorite) && selected:
		return m, func() tea.Msg {
			_, err := app.Favorites.Toggle(ctx, movie)
			return actionDoneMsg(err)
		}
	case key.Matches(msg, m.keys.reload):
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.profile):
		app.Navbar.OpenProfile()
		return m, m.drain(nil)
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.view = MoviesView
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, app := m.ctx, m.app
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.edit):
		m.openEdit()
		return m, nil
	case key.Matches(msg, m.keys.remove):
		movie, ok := selectedMovie(m.favList)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return actionDoneMsg(app.Profile.RemoveFavorite(ctx, movie.ID))
		}
	case key.Matches(msg, m.keys.delete):
		m.view = ConfirmDeleteView
		return m, nil
	case key.Matches(msg, m.keys.movies), key.Matches(msg, m.keys.back):
		app.Navbar.OpenMovies()
		return m, m.drain(nil)
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, app := m.ctx, m.app
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = ProfileView
		return m, func() tea.Msg {
			return actionDoneMsg(app.Profile.Delete(ctx, func(string) bool { return true }))
		}
	case key.Matches(msg, m.keys.no):
		m.view = ProfileView
	}
	return m, nil
}

func (m *Model) logout() tea.Cmd {
	err := m.app.Navbar.Logout()
	return m.drain(err)
}

func (m *Model) refreshFavorites() {
	m.movieList.SetItems(movieItems(m.app.Catalog.Movies(), m.app.Favorites.IDs()))
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MoviesView:
		m.movieList, cmd = m.movieList.Update(msg)
	case ProfileView:
		m.favList, cmd = m.favList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadMovies() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		movies, err := app.Catalog.Load(ctx)
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) loadProfile() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		return profileLoadedMsg(app.Profile.Load(ctx))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case WelcomeView:
		body = m.renderWelcome()
	case LoginView, RegisterView, EditView:
		body = m.renderForm()
	case MoviesView:
		body = m.renderMovies()
	case DialogView:
		body = m.renderDialog()
	case ProfileView:
		body = m.renderProfile()
	case ConfirmDeleteView:
		body = m.renderConfirm()
	}

	if m.notice != "" {
		body = fmt.Sprintf("%s\n\n%s", body, styles.notice(m.notice, m.noticeFailed))
	}
	return body
}

func (m *Model) renderWelcome() string {
	title := styles.title.Render("Welcome to myFlix")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.register, m.keys.quit})
	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderForm() string {
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, submit, m.keys.back})
	hint := ""
	if m.view == EditView {
		hint = styles.help.Render("Leave the password empty to keep it.") + "\n"
	}
	return fmt.Sprintf("%s\n%s%s", m.form.view(), hint, helpView)
}

func (m *Model) renderMovies() string {
	helpKeys := []key.Binding{
		m.keys.synopsis, m.keys.genre, m.keys.director, m.keys.favorite,
		m.keys.profile, m.keys.logout, m.keys.quit,
	}
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDialog() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(m.dialog.Title))
	if m.dialog.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(styles.help.Render(m.dialog.Subtitle))
	}
	if m.dialog.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.dialog.Body)
	}
	closeKey := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return fmt.Sprintf("%s\n\n%s", styles.dialog.Render(b.String()), m.help.ShortHelpView([]key.Binding{closeKey}))
}

func (m *Model) renderProfile() string {
	user := m.app.Profile.User()
	title := styles.title.Render("Profile")
	birthday := models.DateText(user.Birthday).Date()
	if t, ok := user.BirthdayDate(); ok {
		birthday = t.Format("January 2, 2006")
	}
	info := fmt.Sprintf("Username: %s\nEmail:    %s\nBirthday: %s\n", user.Name, user.Email, birthday)

	helpKeys := []key.Binding{m.keys.edit, m.keys.remove, m.keys.delete, m.keys.movies, m.keys.logout, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, m.favList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(controllers.DeleteAccountPrompt)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n\n%s", title, helpView)
}
