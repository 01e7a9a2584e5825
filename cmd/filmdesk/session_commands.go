package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"filmdesk/internal/messages"
	"filmdesk/internal/session"
)

// loginEnv lists credentials that may be supplied through the environment.
type loginEnv struct {
	Email    string `env:"FILMDESK_EMAIL"`
	Password string `env:"FILMDESK_PASSWORD"`
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string
	var remember bool
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the dashboard",
		Long: "Sign in to the dashboard. Credentials come from --email/--password, then " +
			"FILMDESK_EMAIL/FILMDESK_PASSWORD, then an interactive prompt when stdin is a terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				access, err := ws.gate.Init(cmd.Context())
				if err != nil {
					return err
				}
				if access.Granted() && !force {
					fmt.Fprintln(out, renderStatusLine("Session", statusOK, "already signed in ("+access.String()+")", colorize))
					return nil
				}

				creds, err := resolveCredentials(cmd, email, password)
				if err != nil {
					return err
				}
				creds.Remember = remember

				if err := ws.gate.SignIn(cmd.Context(), creds); err != nil {
					var authErr *session.AuthError
					if errors.As(err, &authErr) {
						fmt.Fprintln(out, renderStatusLine("Sign-in", statusError, authErr.Message, colorize))
					}
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Sign-in", statusOK, ws.text.Text(messages.SigninSucceeded), colorize))
				if remember {
					fmt.Fprintln(out, renderStatusLine("Profile", statusInfo, "remembered on this machine", colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "Remember the user and token across sessions")
	cmd.Flags().BoolVar(&force, "force", false, "Sign in again even when access is already granted")
	return cmd
}

func resolveCredentials(cmd *cobra.Command, email, password string) (session.Credentials, error) {
	fromEnv, err := env.ParseAs[loginEnv]()
	if err != nil {
		return session.Credentials{}, fmt.Errorf("parse environment: %w", err)
	}
	if strings.TrimSpace(email) == "" {
		email = fromEnv.Email
	}
	if password == "" {
		password = fromEnv.Password
	}
	if strings.TrimSpace(email) != "" && password != "" {
		return session.Credentials{Email: strings.TrimSpace(email), Password: password}, nil
	}
	if !isInteractive(cmd.InOrStdin()) {
		return session.Credentials{}, errors.New("email and password required: pass --email/--password or set FILMDESK_EMAIL/FILMDESK_PASSWORD")
	}
	email, password, err = promptCredentials(cmd.InOrStdin(), cmd.OutOrStdout(), "filmdesk sign-in", email)
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Email: email, Password: password}, nil
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the dashboard session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				if err := ws.gate.SignOut(cmd.Context(), forget); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				message := "session cleared"
				if forget {
					message = "session cleared, remembered profile removed"
				}
				fmt.Fprintln(out, renderStatusLine("Session", statusOK, message, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Also remove the remembered user and token")
	return cmd
}

func newSessionCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show dashboard access for this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				access, err := ws.gate.Init(cmd.Context())
				if err != nil {
					return err
				}
				user, err := ws.gate.User(cmd.Context())
				if err != nil {
					return err
				}
				view := sessionJSON{
					SessionID: ws.gate.SessionID(),
					Access:    access.String(),
					Granted:   access.Granted(),
					Token:     ws.gate.Token() != "",
				}
				if user != nil {
					view.Email = user.Email
					view.Role = user.Role
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				kind := statusWarn
				message := ws.text.Text(messages.AccessRequired)
				if access.Granted() {
					kind = statusOK
					message = "granted (" + access.String() + ")"
				}
				fmt.Fprintln(out, renderStatusLine("Access", kind, message, colorize))
				fmt.Fprintln(out, renderStatusLine("Session", statusInfo, view.SessionID, colorize))
				if user != nil {
					fmt.Fprintln(out, renderStatusLine("User", statusInfo, strings.TrimSpace(user.Email+" "+user.Role), colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Token", statusInfo, yesNo(view.Token), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
