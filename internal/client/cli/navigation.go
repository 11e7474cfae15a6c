package cli

import (
	"context"
	"fmt"
	"strings"
)

// Developers shows the about page.
func (a *App) Developers(ctx context.Context) error {
	if _, ok, err := a.enter("/developers", "developers"); err != nil || !ok {
		return err
	}
	fmt.Fprintln(a.out, "doccheck checks documents against formatting standards.")
	fmt.Fprintf(a.out, "Backend API: %s\n", a.api.BaseURL())
	return nil
}

// Go navigates to an arbitrary path and prints where the router landed.
func (a *App) Go(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: go <path>")
		return nil
	}
	nav, err := a.navigate(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "At %s (%s)", nav.Path, nav.Route.Name)
	if len(nav.Params) > 0 {
		pairs := make([]string, 0, len(nav.Params))
		for k, v := range nav.Params {
			pairs = append(pairs, k+"="+v)
		}
		fmt.Fprintf(a.out, " %s", strings.Join(pairs, " "))
	}
	fmt.Fprintln(a.out)
	return nil
}
