package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/jrsteele09/studysphere/googleauth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// ask prompts for a value when the flag was left empty.
func ask(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Printf("%s: ", label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

// askSecret prompts without echo when stdin is a terminal. Piped input is
// read as a plain line so scripts keep working.
func askSecret(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ask(label, current)
	}
	fmt.Printf("%s: ", label)
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(label))
	}
	return string(secret), nil
}

func loginCmd(opts *globalOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a username or email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, nil, func(ctx context.Context, a *app) error {
				u, err := ask("Username", username)
				if err != nil {
					return err
				}
				p, err := askSecret("Password", password)
				if err != nil {
					return err
				}
				if err := a.session.Login(ctx, u, p); err != nil {
					return err
				}
				success("Signed in as %s", a.session.User().Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func loginGoogleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login-google",
		Short: "Sign in with a Google account",
		Long: `Sign in with a Google account using the device flow.

A verification URL and code are printed. Open the URL on any device,
enter the code and approve access. Requires GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, nil, func(ctx context.Context, a *app) error {
				clientID, secret := a.cfg.GetGoogleClientID(), a.cfg.GetGoogleClientSecret()
				if clientID == "" {
					return errors.New("GOOGLE_CLIENT_ID is not set")
				}
				verifier, err := googleauth.NewVerifier(ctx, clientID)
				if err != nil {
					return err
				}
				flow, err := googleauth.NewDeviceFlow(clientID, secret, verifier, googleauth.WithLogger(log.Logger))
				if err != nil {
					return err
				}

				credential, identity, err := flow.Credential(ctx, func(verificationURI, userCode string) {
					fmt.Println()
					info("Open  %s", verificationURI)
					info("Code  %s", userCode)
					fmt.Println()
				})
				if err != nil {
					return errors.Wrap(err, "google sign in")
				}
				if err := a.session.LoginWithGoogle(ctx, credential); err != nil {
					return err
				}
				success("Signed in as %s (%s)", a.session.User().Username, identity.Email)
				return nil
			})
		},
	}
}

func registerCmd(opts *globalOptions) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, nil, func(ctx context.Context, a *app) error {
				var err error
				if req.Username, err = ask("Username", req.Username); err != nil {
					return err
				}
				if req.Email, err = ask("Email", req.Email); err != nil {
					return err
				}
				if req.Password, err = askSecret("Password", req.Password); err != nil {
					return err
				}
				if req.Password2, err = askSecret("Confirm password", req.Password2); err != nil {
					return err
				}
				if err := a.session.Register(ctx, req); err != nil {
					return err
				}
				success("Welcome to StudySphere, %s", a.session.User().DisplayName())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&req.Password2, "confirm", "", "Password confirmation")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	return cmd
}

func logoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, nil, func(ctx context.Context, a *app) error {
				if refreshToken, err := a.tokens.Refresh(ctx); err == nil && refreshToken != "" {
					if err := a.client.Auth.Logout(ctx, refreshToken); err != nil {
						log.Warn().Err(err).Msg("server did not revoke the refresh token")
					}
				}
				if err := a.session.Logout(ctx); err != nil {
					return err
				}
				success("Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				printUser(a.session.User())
				if exp, ok := a.tokens.AccessExpiry(ctx); ok {
					info("Access token valid until %s", exp.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}
