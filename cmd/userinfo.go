package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var userinfoForce bool

// userinfoCmd represents the userinfo command
var userinfoCmd = &cobra.Command{
	Use:   "userinfo",
	Short: "Print the user profile",
	Long: `Print the user profile as JSON.

The cached profile is printed when available; --force fetches a fresh copy
from the provider.`,
	RunE: runUserinfo,
}

func init() {
	userinfoCmd.Flags().BoolVar(&userinfoForce, "force", false, "fetch a fresh profile instead of using the cache")
}

func runUserinfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	info, err := session.GetUserInfo(ctx, userinfoForce)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, info, "", "  "); err != nil {
		// Not valid JSON from the provider; print it raw.
		fmt.Println(string(info))
		return nil
	}

	fmt.Println(pretty.String())
	return nil
}
