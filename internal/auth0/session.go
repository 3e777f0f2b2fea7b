package auth0

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/oilstone/plantimer-auth0/internal/config"
	"github.com/oilstone/plantimer-auth0/internal/store"
	"github.com/oilstone/plantimer-auth0/pkg/pkce"
)

// State represents the lifecycle state of a session.
type State int

const (
	// StateUnconfigured means SetUp has not run yet.
	StateUnconfigured State = iota

	// StateConfigured means the session holds a config and a fresh PKCE
	// verifier but no completed authentication.
	StateConfigured

	// StateAuthenticating means a browser round trip is in progress.
	StateAuthenticating

	// StateAuthenticated means a sign-in completed and credentials are
	// stored.
	StateAuthenticated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// DefaultPasswordlessMarker is the substring of a mid-flow redirect URL
// that identifies the provider's passwordless hand-off. When the browser
// lands on such a URL the session re-invokes the authenticator with an
// email-connection authorize URL before extracting the code.
const DefaultPasswordlessMarker = "passwordless"

// SessionOptions configures a Session.
type SessionOptions struct {
	// Tokens is the credential store. Required.
	Tokens *store.TokenStore

	// Exchange performs the token endpoint exchanges. Required.
	Exchange *ExchangeClient

	// Authenticator is the authorization browser. Optional; without one,
	// sign-in fails and logout falls back to the system browser.
	Authenticator Authenticator

	// PasswordlessMarker overrides DefaultPasswordlessMarker.
	// "-" disables the passwordless branch entirely.
	PasswordlessMarker string
}

// Session is the Auth0 client session: a single logical authenticated
// identity per instance, owned by the caller.
//
// Public operations are safe for concurrent use. The token refresh path is
// deduplicated with singleflight so concurrent GetAccessToken callers share
// one exchange. The PKCE verifier lives only in memory for the lifetime of
// the session and is regenerated on every SetUp.
type Session struct {
	mu       sync.RWMutex
	state    State
	cfg      config.Config
	verifier string

	tokens   *store.TokenStore
	exchange *ExchangeClient
	auth     Authenticator
	marker   string

	refresh singleflight.Group

	subMu  sync.Mutex
	subs   map[string]chan string
	closed bool
}

// NewSession creates a session in StateUnconfigured.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Tokens == nil {
		return nil, errors.New("token store is required")
	}
	if opts.Exchange == nil {
		return nil, errors.New("exchange client is required")
	}

	marker := opts.PasswordlessMarker
	switch marker {
	case "":
		marker = DefaultPasswordlessMarker
	case "-":
		marker = ""
	}

	return &Session{
		state:    StateUnconfigured,
		tokens:   opts.Tokens,
		exchange: opts.Exchange,
		auth:     opts.Authenticator,
		marker:   marker,
		subs:     make(map[string]chan string),
	}, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetUp configures the session and generates a fresh PKCE verifier.
// It transitions any state to StateConfigured. When an authenticator is
// present, the not-yet-used authorize URL is offered to it as a prefetch
// hint; failures there are ignored.
func (s *Session) SetUp(ctx context.Context, cfg config.Config) error {
	verifier, err := pkce.GenerateVerifier(pkce.DefaultVerifierLength)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.cfg.Auth0 = cfg.Auth0.WithDefaults()
	s.verifier = verifier
	s.state = StateConfigured
	snapshot := s.cfg
	auth := s.auth
	s.mu.Unlock()

	slog.Debug("session configured", "domain", snapshot.Auth0.Domain)

	// Pre-warm the browser with the authorize URL. Purely a performance
	// hint; a config that cannot build the URL yet is dealt with at
	// sign-in time.
	if auth != nil && auth.Available() {
		if u, err := AuthorizeURL(snapshot.Auth0, pkce.Challenge(verifier), AuthorizeOptions{}); err == nil {
			auth.MayLaunchURL(u)
		}
	}
	return nil
}

// SignInOptions are the optional hints for SignIn.
type SignInOptions struct {
	// LoginHint pre-fills the identifier field on the login page.
	LoginHint string

	// Connection pins the flow to a specific Auth0 connection.
	Connection string
}

// SignIn runs the interactive sign-in flow. It returns false without side
// effects when the user cancels or the callback carries no code. Any
// failure clears stored credentials and returns a *SignInError.
func (s *Session) SignIn(ctx context.Context, opts SignInOptions) (bool, error) {
	return s.authenticate(ctx, AuthorizeOptions{
		LoginHint:  opts.LoginHint,
		Connection: opts.Connection,
	})
}

// SignUp runs the sign-in flow with the provider's sign-up screen hint.
// Failure semantics are identical to SignIn, including the credential
// clear: a failed exchange never leaves partial state behind regardless of
// which screen started the flow.
func (s *Session) SignUp(ctx context.Context, loginHint string) (bool, error) {
	return s.authenticate(ctx, AuthorizeOptions{
		LoginHint:  loginHint,
		ScreenHint: "signup",
	})
}

// authenticate drives one browser round trip and code exchange.
func (s *Session) authenticate(ctx context.Context, opts AuthorizeOptions) (bool, error) {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return false, ErrNotConfigured
	}
	cfg := s.cfg
	verifier := s.verifier
	s.state = StateAuthenticating
	s.mu.Unlock()

	challenge := pkce.Challenge(verifier)

	authURL, err := AuthorizeURL(cfg.Auth0, challenge, opts)
	if err != nil {
		return false, s.failAuthenticate(err)
	}

	if s.auth == nil || !s.auth.Available() {
		return false, s.failAuthenticate(errors.New("no authorization browser available"))
	}

	result, err := s.openBrowser(ctx, cfg, authURL)
	if err != nil {
		return false, s.failAuthenticate(err)
	}
	if result.Type == AuthResultCancel {
		s.setState(StateConfigured)
		return false, nil
	}

	// Passwordless hand-off: the provider redirected to its passwordless
	// page instead of the callback. Re-run the browser with an explicit
	// email connection and the original hint, then proceed as usual.
	if s.marker != "" && strings.Contains(result.URL, s.marker) {
		slog.Debug("passwordless redirect detected, retrying with email connection")

		emailOpts := opts
		emailOpts.Connection = "email"
		authURL, err = AuthorizeURL(cfg.Auth0, challenge, emailOpts)
		if err != nil {
			return false, s.failAuthenticate(err)
		}
		result, err = s.openBrowser(ctx, cfg, authURL)
		if err != nil {
			return false, s.failAuthenticate(err)
		}
		if result.Type == AuthResultCancel {
			s.setState(StateConfigured)
			return false, nil
		}
	}

	code := codeFromCallback(result.URL)
	if code == "" {
		slog.Debug("callback URL carried no authorization code")
		s.setState(StateConfigured)
		return false, nil
	}

	tok, err := s.exchange.ExchangeCode(ctx, cfg.Auth0, code, verifier)
	if err != nil {
		return false, s.failAuthenticate(err)
	}
	if err := s.tokens.SaveTokenSet(tok); err != nil {
		return false, s.failAuthenticate(err)
	}
	if err := s.tokens.SetLoggedIn(true); err != nil {
		return false, s.failAuthenticate(err)
	}

	s.notifyTokenChange(tok.AccessToken)
	s.setState(StateAuthenticated)
	slog.Info("sign-in completed", "domain", cfg.Auth0.Domain)
	return true, nil
}

// openBrowser invokes the authenticator and normalizes browser errors.
func (s *Session) openBrowser(ctx context.Context, cfg config.Config, authURL string) (AuthResult, error) {
	result, err := s.auth.OpenAuth(ctx, authURL, cfg.Auth0.RedirectURI, cfg.Browser)
	if err != nil {
		return AuthResult{}, err
	}
	if result.Type == AuthResultError {
		return AuthResult{}, errors.New("authorization browser reported an error")
	}
	return result, nil
}

// failAuthenticate clears stored credentials so no partial state survives a
// failed attempt, resets the state machine and wraps the cause.
func (s *Session) failAuthenticate(cause error) error {
	if err := s.tokens.Clear(); err != nil {
		slog.Warn("failed to clear credentials after sign-in failure", "error", err.Error())
	}
	s.setState(StateConfigured)
	return &SignInError{Err: cause}
}

// LogOut terminates the provider-side session and clears stored
// credentials. A cancel result from the authenticator aborts the logout
// with storage untouched. Without an authenticator the logout URL is opened
// fire-and-forget in the system browser and the logout proceeds.
func (s *Session) LogOut(ctx context.Context) (bool, error) {
	s.mu.RLock()
	if s.state == StateUnconfigured {
		s.mu.RUnlock()
		return false, ErrNotConfigured
	}
	cfg := s.cfg
	auth := s.auth
	s.mu.RUnlock()

	logoutURL, err := LogoutURL(cfg.Auth0)
	if err != nil {
		return false, err
	}

	if auth != nil && auth.Available() {
		result, err := auth.OpenAuth(ctx, logoutURL, cfg.Auth0.RedirectURI, cfg.Browser)
		if err != nil {
			return false, &LogoutError{Err: err}
		}
		switch result.Type {
		case AuthResultCancel:
			slog.Debug("logout cancelled by user")
			return false, nil
		case AuthResultError:
			return false, &LogoutError{Err: errors.New("authorization browser reported an error")}
		}
	} else {
		if err := OpenSystemBrowser(logoutURL); err != nil {
			slog.Debug("failed to open logout URL in system browser", "error", err.Error())
		}
	}

	s.setState(StateConfigured)
	if err := s.tokens.Clear(); err != nil {
		return false, err
	}

	slog.Info("logged out", "domain", cfg.Auth0.Domain)
	return true, nil
}

// LoggedIn reports whether the session has usable credentials. It serves
// the cached flag when present and otherwise checks for an access token,
// swallowing every error: an unverifiable session counts as logged out.
func (s *Session) LoggedIn(ctx context.Context) bool {
	if s.tokens.LoggedIn() {
		return true
	}

	token, err := s.GetAccessToken(ctx, false)
	if err != nil || token == "" {
		return false
	}

	if err := s.tokens.SetLoggedIn(true); err != nil {
		slog.Debug("failed to cache logged-in flag", "error", err.Error())
	}
	return true
}

// GetAccessToken returns a current access token. The stored token is served
// while it is within its expiry; otherwise a refresh exchange runs,
// deduplicated across concurrent callers. force bypasses the stored token.
// No refresh token in storage returns "" without error.
func (s *Session) GetAccessToken(ctx context.Context, force bool) (string, error) {
	s.mu.RLock()
	if s.state == StateUnconfigured {
		s.mu.RUnlock()
		return "", ErrNotConfigured
	}
	cfg := s.cfg
	s.mu.RUnlock()

	if !force {
		token, err := s.tokens.AccessToken()
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}

	v, err, _ := s.refresh.Do("refresh", func() (interface{}, error) {
		// Another caller may have completed the refresh while this one
		// waited on the flight.
		if !force {
			if token, err := s.tokens.AccessToken(); err == nil && token != "" {
				return token, nil
			}
		}

		refreshToken, err := s.tokens.RefreshToken()
		if err != nil {
			return nil, err
		}
		if refreshToken == "" {
			return "", nil
		}

		tok, err := s.exchange.ExchangeRefreshToken(ctx, cfg.Auth0, refreshToken)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return "", nil
		}
		if err := s.tokens.SaveTokenSet(tok); err != nil {
			return nil, err
		}

		s.notifyTokenChange(tok.AccessToken)
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetUserInfo returns the user profile, served from the cache unless force
// is set. A fetch requires a current access token; without one it returns
// ErrAuthRequired.
func (s *Session) GetUserInfo(ctx context.Context, force bool) (json.RawMessage, error) {
	s.mu.RLock()
	if s.state == StateUnconfigured {
		s.mu.RUnlock()
		return nil, ErrNotConfigured
	}
	cfg := s.cfg
	s.mu.RUnlock()

	if !force {
		if info, ok := s.tokens.UserInfo(); ok {
			return info, nil
		}
	}

	token, err := s.GetAccessToken(ctx, false)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrAuthRequired
	}

	info, err := s.exchange.FetchUserInfo(ctx, cfg.Auth0, token)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveUserInfo(info); err != nil {
		slog.Debug("failed to cache user info", "error", err.Error())
	}
	return info, nil
}

// Subscribe registers a subscriber for access-token changes. The returned
// channel is buffered; delivery is non-blocking and a token is dropped for
// subscribers that have not drained the previous one.
func (s *Session) Subscribe() (string, <-chan string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := uuid.NewString()
	ch := make(chan string, 1)
	if s.closed {
		close(ch)
		return id, ch
	}
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Session) Unsubscribe(id string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// notifyTokenChange multicasts a new access token to all subscribers.
func (s *Session) notifyTokenChange(token string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- token:
		default:
			slog.Debug("token change dropped for slow subscriber", "subscriber", id)
		}
	}
}

// Close removes all subscribers and closes their channels. The session is
// unusable for notifications afterwards; other operations are unaffected.
func (s *Session) Close() error {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return nil
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
