package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/oilstone/plantimer-auth0/internal/auth0"
)

// Login-specific flags
var (
	loginHint       string
	loginConnection string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the browser",
	Long: `Sign in to Auth0 using the browser-based PKCE flow.

A local callback listener receives the redirect, the authorization code is
exchanged for tokens, and the credentials are stored for later use.

Examples:
  plantimer-auth0 login
  plantimer-auth0 login --hint user@example.com
  plantimer-auth0 login --connection email`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginHint, "hint", "", "login hint (pre-fills the identifier field)")
	loginCmd.Flags().StringVar(&loginConnection, "connection", "", "Auth0 connection to use")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " Waiting for the browser sign-in to complete..."
	sp.Start()

	ok, err := session.SignIn(ctx, auth0.SignInOptions{
		LoginHint:  loginHint,
		Connection: loginConnection,
	})
	sp.Stop()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Sign-in cancelled.")
		return nil
	}

	fmt.Println("Signed in.")
	return nil
}
