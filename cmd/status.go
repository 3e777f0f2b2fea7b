package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	pstrings "github.com/oilstone/plantimer-auth0/pkg/strings"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session status",
	Long: `Show whether the session is signed in, which tenant it is configured
for, and the cached user identity if one is available.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, cfg, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("Tenant:    %s\n", cfg.Auth0.Domain)

	if !session.LoggedIn(ctx) {
		fmt.Printf("Status:    %s\n", text.FgRed.Sprint("Signed out"))
		fmt.Println("           Run: plantimer-auth0 login")
		return nil
	}

	fmt.Printf("Status:    %s\n", text.FgGreen.Sprint("Signed in"))

	// The cached profile is optional; missing is not an error here.
	if info, err := session.GetUserInfo(ctx, false); err == nil {
		var profile struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if json.Unmarshal(info, &profile) == nil {
			if profile.Email != "" {
				fmt.Printf("Email:     %s\n", pstrings.Truncate(profile.Email, pstrings.DefaultFieldMaxLen))
			}
			if profile.Name != "" {
				fmt.Printf("Name:      %s\n", pstrings.Truncate(profile.Name, pstrings.DefaultFieldMaxLen))
			}
		}
	}

	return nil
}
