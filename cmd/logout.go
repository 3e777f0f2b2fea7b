package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	Long: `Terminate the Auth0 session and remove all stored credentials:
refresh token, access token, expiry, cached profile and the login flag.`,
	RunE: runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	ok, err := session.LogOut(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Logout cancelled.")
		return nil
	}

	fmt.Println("Signed out.")
	return nil
}
