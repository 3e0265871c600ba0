package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/service"
)

var (
	loginPhone string
	loginCode  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with phone and verification code",
	Long: `Log in as an operator. Without --code a verification code is sent to the
phone; run the command again with the code to finish.

Examples:
  opsconsole login --phone 13800000000
  opsconsole login --phone 13800000000 --code 123456`,
	RunE: screenRun("", runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: screenRun("", func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current operator",
	RunE:  screenRun("", runWhoami),
}

func init() {
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "operator phone number")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "verification code")
	_ = loginCmd.MarkFlagRequired("phone")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string, a *app) error {
	out := cmd.OutOrStdout()
	if strings.TrimSpace(loginCode) == "" {
		expires, err := a.auth.RequestCode(cmd.Context(), loginPhone)
		if err != nil {
			return loginError(err)
		}
		fmt.Fprintf(out, "Verification code sent to %s (valid until %s).\n", loginPhone, expires)
		fmt.Fprintln(out, "Run again with --code to log in.")
		return nil
	}

	sess, err := a.auth.Login(cmd.Context(), loginPhone, loginCode)
	if err != nil {
		return loginError(err)
	}
	fmt.Fprintf(out, "Logged in as %s (roles: %s).\n", principalName(sess), rolesText(sess.Roles))
	return nil
}

// loginError differs from cliError for 401: there was no session to expire.
func loginError(err error) error {
	if backend.IsUnauthorized(err) || errors.Is(err, service.ErrEmptyResponse) {
		return errors.New("login failed: check the phone number and code")
	}
	return err
}

type whoami struct {
	Phone       string   `json:"phone,omitempty"`
	ID          int64    `json:"id,omitempty"`
	Status      string   `json:"status,omitempty"`
	Roles       []string `json:"roles"`
	Fingerprint string   `json:"token_fingerprint"`
}

func runWhoami(cmd *cobra.Command, args []string, a *app) error {
	sess, ok := a.auth.Current(cmd.Context())
	if !ok {
		return errNotLoggedIn
	}
	w := whoami{Roles: sess.Roles, Fingerprint: session.Fingerprint(sess.Token)}
	if sess.User != nil {
		w.Phone, w.ID, w.Status = sess.User.Phone, sess.User.ID, sess.User.Status
	}
	if w.Roles == nil {
		w.Roles = []string{}
	}
	return printResult(cmd, w, table.Row{"Operator", "Roles", "Token"}, func() []table.Row {
		return []table.Row{{principalName(sess), rolesText(sess.Roles), w.Fingerprint}}
	})
}

func principalName(sess *session.Session) string {
	if sess.User == nil || sess.User.Phone == "" {
		return "(unknown operator)"
	}
	return sess.User.Phone
}

func rolesText(roles []string) string {
	if len(roles) == 0 {
		return "none"
	}
	return strings.Join(roles, ", ")
}
