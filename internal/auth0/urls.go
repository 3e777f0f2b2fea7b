package auth0

import (
	"net/url"

	"github.com/oilstone/plantimer-auth0/internal/config"
	"github.com/oilstone/plantimer-auth0/pkg/pkce"
)

// AuthorizeOptions are the optional hints for an authorize URL.
// Empty values are omitted from the query entirely.
type AuthorizeOptions struct {
	// LoginHint pre-fills the identifier field on the login page.
	LoginHint string

	// Connection pins the flow to a specific Auth0 connection,
	// e.g. "email" for the passwordless email flow.
	Connection string

	// ScreenHint selects the initial screen, e.g. "signup".
	ScreenHint string
}

// AuthorizeURL builds the https://{domain}/authorize URL for an
// authorization-code-with-PKCE request. Required configuration is validated
// first; a missing field returns a *config.ConfigError before any network
// activity can happen.
func AuthorizeURL(cfg config.Auth0Config, challenge string, opts AuthorizeOptions) (string, error) {
	if err := cfg.ValidateForAuthorize(); err != nil {
		return "", err
	}

	params := url.Values{
		"audience":              {cfg.Audience},
		"scope":                 {cfg.Scope},
		"response_type":         {"code"},
		"client_id":             {cfg.ClientID},
		"redirect_uri":          {cfg.RedirectURI},
		"code_challenge":        {challenge},
		"code_challenge_method": {pkce.Method},
	}
	if opts.LoginHint != "" {
		params.Set("login_hint", opts.LoginHint)
	}
	if opts.Connection != "" {
		params.Set("connection", opts.Connection)
	}
	if opts.ScreenHint != "" {
		params.Set("screen_hint", opts.ScreenHint)
	}

	u := url.URL{
		Scheme:   "https",
		Host:     cfg.Domain,
		Path:     "/authorize",
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}

// LogoutURL builds the https://{domain}/v2/logout URL that terminates the
// provider-side session and returns the user to the redirect URI.
func LogoutURL(cfg config.Auth0Config) (string, error) {
	if err := cfg.ValidateForLogout(); err != nil {
		return "", err
	}

	params := url.Values{
		"client_id": {cfg.ClientID},
		"returnTo":  {cfg.RedirectURI},
	}

	u := url.URL{
		Scheme:   "https",
		Host:     cfg.Domain,
		Path:     "/v2/logout",
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}
