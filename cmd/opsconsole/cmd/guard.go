package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/adapter/inbound/console"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/domain/session"
)

var (
	errNotLoggedIn  = errors.New("not logged in: run 'opsconsole login' first")
	errAccessDenied = errors.New("access denied")
	errSessionEnded = errors.New("session expired: run 'opsconsole login' again")
)

// requireScreen applies the console's gates to a command: a session must be
// present and hold a console role plus the roles of the named screen.
func requireScreen(ctx context.Context, store *session.Store, name string) error {
	if !store.IsAuthenticated(ctx) {
		return errNotLoggedIn
	}
	if !store.HasAnyRole(ctx, console.ConsoleRoles...) {
		return fmt.Errorf("%w: the console requires one of %s", errAccessDenied, strings.Join(console.ConsoleRoles, ", "))
	}
	s, ok := console.ScreenByName(name)
	if ok && !store.HasAnyRole(ctx, s.Roles...) {
		return fmt.Errorf("%w: %s requires one of %s", errAccessDenied, s.Title, strings.Join(s.Roles, ", "))
	}
	return nil
}

// screenRun opens the app, applies the screen's gates and runs fn.
func screenRun(screen string, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if screen != "" {
			if err := requireScreen(cmd.Context(), a.store, screen); err != nil {
				return err
			}
		}
		return cliError(fn(cmd, args, a))
	}
}

// cliError turns pipeline errors into operator text.
func cliError(err error) error {
	switch {
	case err == nil:
		return nil
	case backend.IsUnauthorized(err):
		return errSessionEnded
	case backend.IsRequestFailed(err), backend.IsTransport(err):
		return errors.New(backend.Message(err))
	default:
		return err
	}
}
