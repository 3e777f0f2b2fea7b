package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oilstone/plantimer-auth0/internal/auth0"
)

var tokenForce bool

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a current access token",
	Long: `Print a current access token to stdout.

The stored token is printed while it is within its expiry; otherwise a
refresh exchange runs first. Useful for piping into curl:

  curl -H "Authorization: Bearer $(plantimer-auth0 token)" ...`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenForce, "force", false, "refresh even if the stored token is still valid")
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	token, err := session.GetAccessToken(ctx, tokenForce)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("no credentials stored, run 'plantimer-auth0 login': %w", auth0.ErrAuthRequired)
	}

	fmt.Println(token)
	return nil
}
