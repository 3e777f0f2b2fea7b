package auth0

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/oilstone/plantimer-auth0/internal/config"
)

// DefaultCallbackPort is the default port for the local callback listener.
const DefaultCallbackPort = 53682

// callbackReadHeaderTimeout bounds slow or stalled callback requests.
const callbackReadHeaderTimeout = 10 * time.Second

const callbackSuccessHTML = `<!DOCTYPE html>
<html>
<head><title>Signed in</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1>You are signed in</h1>
<p>You can close this window and return to the application.</p>
</body>
</html>`

const callbackErrorHTML = `<!DOCTYPE html>
<html>
<head><title>Sign-in failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1>Sign-in failed</h1>
<p>%s</p>
</body>
</html>`

// LoopbackAuthenticator is an Authenticator for terminal use. It opens the
// system browser at the authorize URL and runs a temporary HTTP listener on
// the loopback interface to receive the redirect. The configured redirect
// URI must point at the listener (e.g. http://localhost:53682/callback).
type LoopbackAuthenticator struct {
	// Port overrides the listener port. 0 uses the port from the return
	// URL, falling back to DefaultCallbackPort.
	Port int
}

// Available reports whether a browser round trip can be attempted.
func (a *LoopbackAuthenticator) Available() bool {
	return true
}

// MayLaunchURL is a best-effort prefetch hint. There is no browser process
// to pre-warm on desktop platforms, so this only logs.
func (a *LoopbackAuthenticator) MayLaunchURL(rawURL string) {
	slog.Debug("browser prefetch hint ignored on this platform")
}

// OpenAuth opens authURL in the system browser and waits for the redirect
// to hit the local listener. Context cancellation while waiting is treated
// as the user declining, not as an error.
func (a *LoopbackAuthenticator) OpenAuth(ctx context.Context, authURL, returnURL string, _ config.BrowserConfig) (AuthResult, error) {
	port, path, err := a.listenTarget(returnURL)
	if err != nil {
		return AuthResult{Type: AuthResultError}, err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return AuthResult{Type: AuthResultError}, fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer listener.Close()

	resultCh := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		q := r.URL.Query()
		if errCode := q.Get("error"); errCode != "" {
			fmt.Fprintf(w, callbackErrorHTML, q.Get("error_description"))
		} else {
			fmt.Fprint(w, callbackSuccessHTML)
		}

		select {
		case resultCh <- returnURL + "?" + r.URL.RawQuery:
		default:
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: callbackReadHeaderTimeout,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Debug("callback listener stopped", "error", err.Error())
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := OpenSystemBrowser(authURL); err != nil {
		return AuthResult{Type: AuthResultError}, err
	}

	select {
	case resultURL := <-resultCh:
		parsed, err := url.Parse(resultURL)
		if err == nil && parsed.Query().Get("error") != "" {
			return AuthResult{Type: AuthResultError, URL: resultURL}, nil
		}
		return AuthResult{Type: AuthResultSuccess, URL: resultURL}, nil
	case <-ctx.Done():
		return AuthResult{Type: AuthResultCancel}, nil
	}
}

// listenTarget derives the listener port and callback path from the return
// URL so the listener matches the registered redirect URI.
func (a *LoopbackAuthenticator) listenTarget(returnURL string) (int, string, error) {
	port := a.Port
	path := "/callback"

	u, err := url.Parse(returnURL)
	if err != nil {
		return 0, "", fmt.Errorf("invalid return URL %q: %w", returnURL, err)
	}
	if u.Path != "" {
		path = u.Path
	}
	if port == 0 {
		if p := u.Port(); p != "" {
			if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
				return 0, "", fmt.Errorf("invalid port in return URL %q: %w", returnURL, err)
			}
		}
	}
	if port == 0 {
		port = DefaultCallbackPort
	}
	return port, path, nil
}
