package auth0

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilstone/plantimer-auth0/internal/config"
)

// tenantServer runs an httptest server and returns it together with a
// config whose domain resolves to the server. The exchange client builds
// https URLs from the domain, so the test transport rewrites them to the
// server.
func tenantServer(t *testing.T, handler http.Handler) (*httptest.Server, config.Auth0Config, *ExchangeClient) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Domain = strings.TrimPrefix(srv.URL, "http://")

	client := NewExchangeClient(ExchangeClientOptions{
		HTTPClient: &http.Client{Transport: &plainHTTPTransport{}},
	})
	return srv, cfg, client
}

// plainHTTPTransport downgrades https to http so requests reach the
// httptest server.
type plainHTTPTransport struct{}

func (p *plainHTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	return http.DefaultTransport.RoundTrip(req)
}

func TestExchangeClient_ExchangeCode(t *testing.T) {
	t.Run("posts the expected form and decodes tokens", func(t *testing.T) {
		var gotForm url.Values
		_, cfg, client := tenantServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/oauth/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
		}))

		tok, err := client.ExchangeCode(context.Background(), cfg, "the-code", "the-verifier")
		require.NoError(t, err)

		assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
		assert.Equal(t, cfg.ClientID, gotForm.Get("client_id"))
		assert.Equal(t, "the-code", gotForm.Get("code"))
		assert.Equal(t, "the-verifier", gotForm.Get("code_verifier"))
		assert.Equal(t, cfg.Audience, gotForm.Get("audience"))
		assert.Equal(t, cfg.RedirectURI, gotForm.Get("redirect_uri"))

		assert.Equal(t, "at", tok.AccessToken)
		assert.Equal(t, "rt", tok.RefreshToken)
		assert.False(t, tok.Expiry.IsZero())
	})

	t.Run("empty code or verifier fails before any request", func(t *testing.T) {
		client := NewExchangeClient(ExchangeClientOptions{})

		for _, args := range [][2]string{{"", "v"}, {"c", ""}, {"", ""}} {
			_, err := client.ExchangeCode(context.Background(), testConfig(), args[0], args[1])

			var exchErr *ExchangeError
			require.ErrorAs(t, err, &exchErr)
			assert.Contains(t, exchErr.Error(), "missing code or verifier")
		}
	})

	t.Run("non-2xx maps to ExchangeError with status and body", func(t *testing.T) {
		_, cfg, client := tenantServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusForbidden)
		}))

		_, err := client.ExchangeCode(context.Background(), cfg, "c", "v")

		var exchErr *ExchangeError
		require.ErrorAs(t, err, &exchErr)
		assert.Equal(t, http.StatusForbidden, exchErr.StatusCode)
		assert.Contains(t, exchErr.Body, "invalid_grant")
	})
}

func TestExchangeClient_ExchangeRefreshToken(t *testing.T) {
	t.Run("posts the refresh grant", func(t *testing.T) {
		var gotForm url.Values
		_, cfg, client := tenantServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm
			fmt.Fprint(w, `{"access_token":"fresh","expires_in":60}`)
		}))

		tok, err := client.ExchangeRefreshToken(context.Background(), cfg, "the-refresh-token")
		require.NoError(t, err)

		assert.Equal(t, "refresh_token", gotForm.Get("grant_type"))
		assert.Equal(t, cfg.ClientID, gotForm.Get("client_id"))
		assert.Equal(t, "the-refresh-token", gotForm.Get("refresh_token"))
		assert.Equal(t, "fresh", tok.AccessToken)
	})

	t.Run("empty refresh token returns nil without error", func(t *testing.T) {
		client := NewExchangeClient(ExchangeClientOptions{})

		tok, err := client.ExchangeRefreshToken(context.Background(), testConfig(), "")
		require.NoError(t, err)
		assert.Nil(t, tok)
	})

	t.Run("transport failure maps to ExchangeError", func(t *testing.T) {
		cfg := testConfig()
		cfg.Domain = "127.0.0.1:1" // nothing listens here

		client := NewExchangeClient(ExchangeClientOptions{
			HTTPClient: &http.Client{Transport: &plainHTTPTransport{}},
		})

		_, err := client.ExchangeRefreshToken(context.Background(), cfg, "rt")

		var exchErr *ExchangeError
		require.ErrorAs(t, err, &exchErr)
		assert.NotNil(t, exchErr.Unwrap())
	})
}

func TestExchangeClient_FetchUserInfo(t *testing.T) {
	t.Run("sends bearer auth and returns the body", func(t *testing.T) {
		_, cfg, client := tenantServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/userinfo", r.URL.Path)
			require.Equal(t, "Bearer the-token", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"sub":"auth0|1","email":"u@example.com"}`)
		}))

		info, err := client.FetchUserInfo(context.Background(), cfg, "the-token")
		require.NoError(t, err)
		assert.JSONEq(t, `{"sub":"auth0|1","email":"u@example.com"}`, string(info))
	})

	t.Run("non-200 maps to FetchError with status and body", func(t *testing.T) {
		_, cfg, client := tenantServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		}))

		_, err := client.FetchUserInfo(context.Background(), cfg, "stale")

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
		assert.Contains(t, fetchErr.Body, "token expired")
	})
}
