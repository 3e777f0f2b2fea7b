// Package cmd implements the plantimer-auth0 command line interface.
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/oilstone/plantimer-auth0/internal/auth0"
	"github.com/oilstone/plantimer-auth0/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions and give
// scripts something to branch on.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the sign-in or logout flow failed.
	ExitCodeAuthFailed = 3
)

// configDir is the --config persistent flag: the directory holding
// config.yaml, credentials and settings.
var configDir string

// debug enables verbose logging across the application.
var debug bool

// logLevel selects the minimum log level when --debug is not set.
var logLevel string

// rootCmd is the base command for the plantimer-auth0 application.
var rootCmd = &cobra.Command{
	Use:   "plantimer-auth0",
	Short: "Auth0 sign-in for the Plantimer app",
	Long: `plantimer-auth0 manages the Auth0 session for the Plantimer app:
browser-based sign-in and sign-up with PKCE, access-token refresh,
and credential storage.`,
	// SilenceUsage keeps error output clean; usage is not helpful when a
	// browser flow fails.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		if debug {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
		return nil
	},
}

// SetVersion sets the version for the root command, injected at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits with a semantic exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "plantimer-auth0 version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to exit codes.
func getExitCode(err error) int {
	if errors.Is(err, auth0.ErrAuthRequired) || errors.Is(err, auth0.ErrNotConfigured) {
		return ExitCodeAuthRequired
	}

	var signInErr *auth0.SignInError
	if errors.As(err, &signInErr) {
		return ExitCodeAuthFailed
	}

	var logoutErr *auth0.LogoutError
	if errors.As(err, &logoutErr) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default is $HOME/.config/plantimer-auth0)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable general debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(userinfoCmd)
}
