package auth0

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilstone/plantimer-auth0/internal/config"
)

func testConfig() config.Auth0Config {
	return config.Auth0Config{
		Domain:      "t.auth0.com",
		ClientID:    "c",
		Audience:    "a",
		RedirectURI: "app://cb",
		Scope:       config.DefaultScope,
	}
}

func TestAuthorizeURL(t *testing.T) {
	t.Run("builds the standard authorize URL", func(t *testing.T) {
		raw, err := AuthorizeURL(testConfig(), "challenge-value", AuthorizeOptions{})
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, "t.auth0.com", u.Host)
		assert.Equal(t, "/authorize", u.Path)

		q := u.Query()
		assert.Equal(t, "code", q.Get("response_type"))
		assert.Equal(t, "S256", q.Get("code_challenge_method"))
		assert.Equal(t, "challenge-value", q.Get("code_challenge"))
		assert.Equal(t, "c", q.Get("client_id"))
		assert.Equal(t, "a", q.Get("audience"))
		assert.Equal(t, "app://cb", q.Get("redirect_uri"))
		assert.Equal(t, config.DefaultScope, q.Get("scope"))
	})

	t.Run("omits empty hints entirely", func(t *testing.T) {
		raw, err := AuthorizeURL(testConfig(), "ch", AuthorizeOptions{})
		require.NoError(t, err)

		q, err := url.ParseQuery(mustParse(t, raw).RawQuery)
		require.NoError(t, err)
		for _, key := range []string{"login_hint", "connection", "screen_hint"} {
			_, present := q[key]
			assert.False(t, present, "%s must be omitted, not empty", key)
		}
	})

	t.Run("includes provided hints", func(t *testing.T) {
		raw, err := AuthorizeURL(testConfig(), "ch", AuthorizeOptions{
			LoginHint:  "u@example.com",
			Connection: "email",
			ScreenHint: "signup",
		})
		require.NoError(t, err)

		q := mustParse(t, raw).Query()
		assert.Equal(t, "u@example.com", q.Get("login_hint"))
		assert.Equal(t, "email", q.Get("connection"))
		assert.Equal(t, "signup", q.Get("screen_hint"))
	})

	t.Run("percent-encodes parameter values", func(t *testing.T) {
		raw, err := AuthorizeURL(testConfig(), "ch", AuthorizeOptions{LoginHint: "a b+c@example.com"})
		require.NoError(t, err)

		assert.NotContains(t, raw, "a b")
		assert.Equal(t, "a b+c@example.com", mustParse(t, raw).Query().Get("login_hint"))
	})

	t.Run("missing required fields fail with ConfigError", func(t *testing.T) {
		for _, mutate := range []func(*config.Auth0Config){
			func(c *config.Auth0Config) { c.Audience = "" },
			func(c *config.Auth0Config) { c.ClientID = "" },
			func(c *config.Auth0Config) { c.RedirectURI = "" },
			func(c *config.Auth0Config) { c.Domain = "" },
		} {
			cfg := testConfig()
			mutate(&cfg)

			_, err := AuthorizeURL(cfg, "ch", AuthorizeOptions{})
			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		}
	})
}

func TestLogoutURL(t *testing.T) {
	t.Run("builds the logout URL", func(t *testing.T) {
		raw, err := LogoutURL(testConfig())
		require.NoError(t, err)

		u := mustParse(t, raw)
		assert.Equal(t, "/v2/logout", u.Path)
		assert.Equal(t, "c", u.Query().Get("client_id"))
		assert.Equal(t, "app://cb", u.Query().Get("returnTo"))
	})

	t.Run("missing client id fails with ConfigError", func(t *testing.T) {
		cfg := testConfig()
		cfg.ClientID = ""

		_, err := LogoutURL(cfg)
		var cfgErr *config.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("missing redirect uri fails with ConfigError", func(t *testing.T) {
		cfg := testConfig()
		cfg.RedirectURI = ""

		_, err := LogoutURL(cfg)
		var cfgErr *config.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
