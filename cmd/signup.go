package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var signupHint string

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account through the browser",
	Long: `Sign up for a new account using the browser-based PKCE flow.

Identical to login except the browser opens on the provider's sign-up
screen.`,
	RunE: runSignup,
}

func init() {
	signupCmd.Flags().StringVar(&signupHint, "hint", "", "login hint (pre-fills the identifier field)")
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " Waiting for the browser sign-up to complete..."
	sp.Start()

	ok, err := session.SignUp(ctx, signupHint)
	sp.Stop()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Sign-up cancelled.")
		return nil
	}

	fmt.Println("Signed up and signed in.")
	return nil
}
