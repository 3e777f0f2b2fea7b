package auth0

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/oilstone/plantimer-auth0/internal/config"
)

// AuthResultType classifies the outcome of a browser authorization round
// trip.
type AuthResultType int

const (
	// AuthResultSuccess means the browser returned to the redirect URI.
	// The result URL carries the authorization code.
	AuthResultSuccess AuthResultType = iota

	// AuthResultCancel means the user dismissed the browser. This is a
	// non-error "user declined" outcome.
	AuthResultCancel

	// AuthResultError means the browser session failed.
	AuthResultError
)

// String returns the string representation of the result type.
func (t AuthResultType) String() string {
	switch t {
	case AuthResultSuccess:
		return "success"
	case AuthResultCancel:
		return "cancel"
	case AuthResultError:
		return "error"
	default:
		return "unknown"
	}
}

// AuthResult is the terminal result of a browser authorization session.
type AuthResult struct {
	// Type is the outcome classification.
	Type AuthResultType

	// URL is the callback URL the browser landed on, set on success.
	URL string
}

// Authenticator is the external authorization browser capability consumed
// by the session. Implementations open a URL in a user agent, wait for the
// flow to land on the return URL, and report the outcome.
//
// OpenAuth must honor context cancellation. MayLaunchURL is a best-effort
// prefetch hint; implementations may ignore it.
type Authenticator interface {
	Available() bool
	OpenAuth(ctx context.Context, authURL, returnURL string, cfg config.BrowserConfig) (AuthResult, error)
	MayLaunchURL(rawURL string)
}

// OpenSystemBrowser opens the URL in the default system browser without
// waiting for any result. It supports Linux, macOS, and Windows.
func OpenSystemBrowser(rawURL string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// Start without waiting; the browser opens in the background.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// codeFromCallback extracts the authorization code from a callback URL.
// The named "code" query parameter is authoritative. Some providers redirect
// to nonstandard URLs whose only structure is key=value after the first '=';
// when no code parameter can be parsed, that substring is used as a last
// resort.
func codeFromCallback(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if u, err := url.Parse(rawURL); err == nil {
		if code := u.Query().Get("code"); code != "" {
			return code
		}
	}

	if idx := strings.Index(rawURL, "="); idx >= 0 && idx+1 < len(rawURL) {
		return rawURL[idx+1:]
	}
	return ""
}
