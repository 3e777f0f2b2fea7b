// Package config defines the Auth0 client configuration and its YAML loader.
//
// Configuration is an explicit, validated struct. Required fields are checked
// eagerly before any URL is built or any network call is made, and a missing
// field surfaces as a typed *ConfigError naming the field.
package config

// DefaultScope is the scope requested when none is configured.
// offline_access is required to receive a refresh token.
const DefaultScope = "offline_access openid profile email"

// Auth0Config holds the Auth0 tenant settings for a session.
// It is immutable once handed to a session via SetUp.
type Auth0Config struct {
	// Domain is the Auth0 tenant domain, e.g. "example.eu.auth0.com".
	Domain string `yaml:"domain"`

	// ClientID is the OAuth client identifier.
	ClientID string `yaml:"client_id"`

	// Audience is the API identifier access tokens are requested for.
	Audience string `yaml:"audience"`

	// RedirectURI is where the authorization server sends the user back.
	RedirectURI string `yaml:"redirect_uri"`

	// Scope is the space-separated scope list. Defaults to DefaultScope.
	Scope string `yaml:"scope,omitempty"`
}

// BrowserConfig carries options for the authorization browser.
// The session forwards it to the authenticator untouched.
type BrowserConfig struct {
	// ToolbarColor is a hex color for the in-app browser toolbar.
	ToolbarColor string `yaml:"toolbar_color,omitempty"`

	// EphemeralSession requests a browser session that shares no cookies
	// with the user's regular browsing session.
	EphemeralSession bool `yaml:"ephemeral_session,omitempty"`

	// ShowPageTitle toggles the page title in the in-app browser.
	ShowPageTitle bool `yaml:"show_page_title,omitempty"`

	// CallbackPort is the port for the local callback listener used by the
	// loopback authenticator. 0 picks the default.
	CallbackPort int `yaml:"callback_port,omitempty"`
}

// Config is the full configuration shape consumed by a session.
type Config struct {
	Auth0   Auth0Config   `yaml:"auth0"`
	Browser BrowserConfig `yaml:"browser,omitempty"`
}

// ConfigError reports a missing required configuration field.
type ConfigError struct {
	// Field is the name of the missing field, in wire-format naming
	// (e.g. "client_id").
	Field string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "auth0 config: missing required field " + e.Field
}

// WithDefaults returns a copy of the config with defaults applied.
func (c Auth0Config) WithDefaults() Auth0Config {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	return c
}

// ValidateForAuthorize checks the fields required to build an authorize URL.
// Returns a *ConfigError naming the first missing field.
func (c Auth0Config) ValidateForAuthorize() error {
	switch {
	case c.Domain == "":
		return &ConfigError{Field: "domain"}
	case c.Audience == "":
		return &ConfigError{Field: "audience"}
	case c.ClientID == "":
		return &ConfigError{Field: "client_id"}
	case c.RedirectURI == "":
		return &ConfigError{Field: "redirect_uri"}
	}
	return nil
}

// ValidateForLogout checks the fields required to build a logout URL.
func (c Auth0Config) ValidateForLogout() error {
	switch {
	case c.Domain == "":
		return &ConfigError{Field: "domain"}
	case c.ClientID == "":
		return &ConfigError{Field: "client_id"}
	case c.RedirectURI == "":
		return &ConfigError{Field: "redirect_uri"}
	}
	return nil
}
