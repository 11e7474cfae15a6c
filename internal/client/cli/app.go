package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/doccheck/internal/client/api"
	"github.com/dmitrijs2005/doccheck/internal/client/config"
	"github.com/dmitrijs2005/doccheck/internal/client/models"
	"github.com/dmitrijs2005/doccheck/internal/client/router"
	"github.com/dmitrijs2005/doccheck/internal/client/session"
	"github.com/dmitrijs2005/doccheck/internal/logging"
)

// APIClient is the part of *api.Client the terminal UI drives.
type APIClient interface {
	Login(ctx context.Context, cred models.Credentials) (*models.LoginResult, error)
	UploadFile(ctx context.Context, path string) (*models.UploadResult, error)
	Download(ctx context.Context, id models.DocID) (*api.Blob, error)
	DownloadAnnotated(ctx context.Context, id models.DocID) (*api.Blob, error)
	History(ctx context.Context) ([]models.HistoryItem, error)
	Result(ctx context.Context, id models.DocID) (*models.Result, error)
	ValidateToken(ctx context.Context) bool
	BaseURL() string
}

// Session is the part of *session.Store the terminal UI drives.
type Session interface {
	Login(ctx context.Context, user models.User) error
	Logout(ctx context.Context) error
	Check(ctx context.Context) bool
	State() session.State
	IsAuthenticated() bool
}

type App struct {
	config   *config.Config
	api      APIClient
	session  Session
	router   *router.Router
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	location router.Navigation
}

func NewApp(c *config.Config, client APIClient, sess Session, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	return &App{
		config:  c,
		api:     client,
		session: sess,
		router:  router.New(sess),
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

// Run lands on the home page (or the login page when signed out), offers a
// login if needed and then serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to doccheck (type 'help' for commands)")

	if _, err := a.navigate(router.PathHome); err != nil {
		return err
	}
	if !a.isLoggedIn() {
		a.report(a.Login(ctx))
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status is the prompt suffix: the signed-in user and the current path.
func (a *App) status() string {
	s := a.location.Path
	if u := a.session.State().User; u != nil && u.Name != "" {
		s = u.Name + " " + s
	}
	return s
}

// navigate moves to path through the router and reports redirects.
func (a *App) navigate(path string) (router.Navigation, error) {
	nav, err := a.router.Navigate(path)
	if err != nil {
		return nav, err
	}
	a.location = nav
	if nav.Redirected() {
		a.log.Debug(context.Background(), "navigation redirected", "requested", nav.Requested, "path", nav.Path)
		fmt.Fprintf(a.out, "Redirected to %s\n", nav.Path)
	}
	return nav, nil
}

// enter navigates to path and reports whether the router let the user reach
// the route named want.
func (a *App) enter(path, want string) (router.Navigation, bool, error) {
	nav, err := a.navigate(path)
	if err != nil {
		return nav, false, err
	}
	if nav.Route.Name != want {
		if nav.Path == router.PathLogin {
			fmt.Fprintln(a.out, "Please login first")
		}
		return nav, false, nil
	}
	return nav, true, nil
}

// apiFailed signs the session out locally when the backend rejected the
// token, so the next navigation lands on the login page.
func (a *App) apiFailed(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.log.Warn(ctx, "logout after 401", "error", lerr)
		}
		if _, nerr := a.navigate(router.PathLogin); nerr != nil {
			a.log.Warn(ctx, "navigate after 401", "error", nerr)
		}
	}
	return err
}

// report prints a user-facing line for err, if any.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(a.out, "Error:", api.Message(err))
}
