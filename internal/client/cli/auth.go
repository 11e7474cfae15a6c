package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/doccheck/internal/client/models"
	"github.com/dmitrijs2005/doccheck/internal/client/router"
	"github.com/dmitrijs2005/doccheck/internal/common"
)

// Login prompts for credentials, signs in against the backend and moves to
// the home page. Signed-in users are sent home without a prompt.
func (a *App) Login(ctx context.Context) error {
	_, ok, err := a.enter(router.PathLogin, "login")
	if err != nil || !ok {
		return err
	}

	login, err := promptLine(a.reader, a.out, "Login")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	// Scrubs only the terminal buffer. The string copy in Credentials is
	// immutable and stays in memory until collected.
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, models.Credentials{Login: login, Password: string(password)})
	if err != nil {
		a.log.Info(ctx, "login failed", "login", login, "error", err)
		return err
	}
	if err := a.session.Login(ctx, res.User); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Login successful, welcome %s\n", displayName(res.User, login))
	_, err = a.navigate(router.PathHome)
	return err
}

func displayName(u models.User, fallback string) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return fallback
}

// Logout signs out, drops the token and lands on the login page.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)
	if err != nil {
		a.log.Warn(ctx, "logout cleanup", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	if _, nerr := a.navigate(router.PathLogin); nerr != nil {
		return nerr
	}
	return err
}

// Status prints the session state. A session whose token no longer
// validates is signed out here.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	valid := a.api.ValidateToken(ctx)

	switch {
	case st.Authenticated && !valid:
		fmt.Fprintln(a.out, "Session expired, please login again")
		err := a.session.Logout(ctx)
		if _, nerr := a.navigate(router.PathLogin); nerr != nil {
			return nerr
		}
		return err
	case st.Authenticated && st.User != nil:
		fmt.Fprintf(a.out, "Signed in as %s (id %s)\n", displayName(*st.User, st.User.ID), st.User.ID)
	case st.Authenticated:
		fmt.Fprintln(a.out, "Signed in")
	default:
		fmt.Fprintln(a.out, "Not signed in")
	}
	fmt.Fprintf(a.out, "Backend: %s\nLocation: %s\n", a.api.BaseURL(), a.location.Path)
	return nil
}
