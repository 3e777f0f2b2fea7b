package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
)

// Storage key namespace. Refresh and access tokens live in the secure
// store; expiry, cached user info and the logged-in flag live in the
// settings store. All five are cleared together.
const (
	KeyRefreshToken      = "auth0_refresh_token"
	KeyAccessToken       = "auth0_access_token"
	KeyAccessTokenExpire = "auth0_access_token_expire"
	KeyUserInfo          = "auth0_user_info"
	KeyUserLoggedIn      = "auth0_user_logged_in"
)

// TokenStore owns the persisted credential state of a session: the token
// pair in secure storage plus the expiry instant and cached flags in the
// settings store.
//
// SECURITY: Token values are never logged. Only lifecycle events and the
// presence of a refresh token are logged for audit purposes.
type TokenStore struct {
	secure   SecureStore
	settings SettingsStore
	now      func() time.Time
}

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	// Secure is the credential store. Required.
	Secure SecureStore

	// Settings is the non-secret settings store. Required.
	Settings SettingsStore

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenStore creates a TokenStore over the given stores.
func NewTokenStore(opts TokenStoreOptions) (*TokenStore, error) {
	if opts.Secure == nil {
		return nil, errors.New("secure store is required")
	}
	if opts.Settings == nil {
		return nil, errors.New("settings store is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenStore{
		secure:   opts.Secure,
		settings: opts.Settings,
		now:      now,
	}, nil
}

// SaveTokenSet persists a token set from a code or refresh exchange.
// The refresh token is only written when present: a refresh response that
// omits it must never clobber the stored one with an empty value. The
// access token and its absolute expiry are replaced wholesale.
func (s *TokenStore) SaveTokenSet(tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return errors.New("token set has no access token")
	}

	if tok.RefreshToken != "" {
		if err := s.secure.Set(KeyRefreshToken, tok.RefreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	if err := s.secure.Set(KeyAccessToken, tok.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	if !tok.Expiry.IsZero() {
		if err := s.settings.SetInt64(KeyAccessTokenExpire, tok.Expiry.UnixMilli()); err != nil {
			return fmt.Errorf("failed to store access token expiry: %w", err)
		}
	}

	slog.Debug("token set stored",
		"has_refresh_token", tok.RefreshToken != "",
		"expiry", tok.Expiry.Format(time.RFC3339),
	)
	return nil
}

// AccessToken returns the stored access token if it is present and not past
// its expiry instant. An absent or expired token returns "" without error;
// the caller decides whether to refresh.
func (s *TokenStore) AccessToken() (string, error) {
	token, err := s.secure.Get(KeyAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	// A missing expiry means the token never expires.
	expireMillis, ok := s.settings.GetInt64(KeyAccessTokenExpire)
	if !ok {
		return token, nil
	}
	if s.now().UnixMilli() > expireMillis {
		return "", nil
	}
	return token, nil
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *TokenStore) RefreshToken() (string, error) {
	return s.secure.Get(KeyRefreshToken)
}

// SaveUserInfo caches the user-info document.
func (s *TokenStore) SaveUserInfo(info json.RawMessage) error {
	return s.settings.SetString(KeyUserInfo, string(info))
}

// UserInfo returns the cached user-info document and whether one is cached.
func (s *TokenStore) UserInfo() (json.RawMessage, bool) {
	v, ok := s.settings.GetString(KeyUserInfo)
	if !ok || v == "" {
		return nil, false
	}
	return json.RawMessage(v), true
}

// SetLoggedIn stores the logged-in flag.
func (s *TokenStore) SetLoggedIn(v bool) error {
	return s.settings.SetBool(KeyUserLoggedIn, v)
}

// LoggedIn returns the cached logged-in flag; absent means false.
func (s *TokenStore) LoggedIn() bool {
	v, ok := s.settings.GetBool(KeyUserLoggedIn)
	return ok && v
}

// Clear removes the refresh token, access token, expiry, cached user info
// and the logged-in flag. Every removal is attempted even when an earlier
// one fails, so a partial failure never skips keys; any error means the
// clear must be treated as incomplete and retried.
func (s *TokenStore) Clear() error {
	errs := []error{
		s.secure.Remove(KeyRefreshToken),
		s.secure.Remove(KeyAccessToken),
		s.settings.Remove(KeyAccessTokenExpire),
		s.settings.Remove(KeyUserInfo),
		s.settings.Remove(KeyUserLoggedIn),
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("credential clear incomplete", "error", err.Error())
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	slog.Debug("credentials cleared")
	return nil
}
