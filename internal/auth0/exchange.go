package auth0

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/oilstone/plantimer-auth0/internal/config"
)

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// ExchangeClient performs the token endpoint exchanges and the user-info
// fetch against an Auth0 tenant.
//
// Thread-safe: yes, the underlying http.Client is safe for concurrent use.
type ExchangeClient struct {
	httpClient *http.Client
}

// ExchangeClientOptions configures an ExchangeClient.
type ExchangeClientOptions struct {
	// HTTPClient is an optional custom HTTP client. If nil, a client with
	// DefaultHTTPTimeout is used.
	HTTPClient *http.Client
}

// NewExchangeClient creates an ExchangeClient.
func NewExchangeClient(opts ExchangeClientOptions) *ExchangeClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &ExchangeClient{httpClient: httpClient}
}

func tokenEndpoint(cfg config.Auth0Config) string {
	return "https://" + cfg.Domain + "/oauth/token"
}

func userInfoEndpoint(cfg config.Auth0Config) string {
	return "https://" + cfg.Domain + "/userinfo"
}

// ExchangeCode exchanges an authorization code for a token set.
// Both code and verifier must be non-empty; that precondition is checked
// before any request is sent.
func (c *ExchangeClient) ExchangeCode(ctx context.Context, cfg config.Auth0Config, code, verifier string) (*oauth2.Token, error) {
	if code == "" || verifier == "" {
		return nil, &ExchangeError{Message: "missing code or verifier"}
	}

	data := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {cfg.ClientID},
		"code":          {code},
		"code_verifier": {verifier},
		"audience":      {cfg.Audience},
		"redirect_uri":  {cfg.RedirectURI},
	}

	tok, err := c.postTokenRequest(ctx, tokenEndpoint(cfg), data)
	if err != nil {
		return nil, err
	}

	slog.Debug("authorization code exchanged",
		"domain", cfg.Domain,
		"has_refresh_token", tok.RefreshToken != "",
	)
	return tok, nil
}

// ExchangeRefreshToken exchanges a refresh token for a fresh token set.
// An empty refresh token returns (nil, nil): the caller checks storage
// first, and having nothing to refresh is not an error.
func (c *ExchangeClient) ExchangeRefreshToken(ctx context.Context, cfg config.Auth0Config, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, nil
	}

	data := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {cfg.ClientID},
		"refresh_token": {refreshToken},
	}

	tok, err := c.postTokenRequest(ctx, tokenEndpoint(cfg), data)
	if err != nil {
		return nil, err
	}

	slog.Debug("refresh token exchanged", "domain", cfg.Domain)
	return tok, nil
}

// postTokenRequest POSTs a form to the token endpoint and decodes the
// token response. Non-2xx responses and transport errors are mapped to
// *ExchangeError carrying the endpoint and status for diagnosis.
func (c *ExchangeClient) postTokenRequest(ctx context.Context, endpoint string, data url.Values) (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &ExchangeError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExchangeError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ExchangeError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
		Scope        string `json:"scope"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, &ExchangeError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode token response: %w", err)}
	}

	tok := &oauth2.Token{
		AccessToken:  tokenResp.AccessToken,
		TokenType:    tokenResp.TokenType,
		RefreshToken: tokenResp.RefreshToken,
	}
	if tokenResp.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	if tokenResp.IDToken != "" {
		tok = tok.WithExtra(map[string]interface{}{"id_token": tokenResp.IDToken})
	}
	return tok, nil
}

// FetchUserInfo fetches the user profile with bearer authentication.
// A non-200 response is mapped to *FetchError carrying status and body.
func (c *ExchangeClient) FetchUserInfo(ctx context.Context, cfg config.Auth0Config, accessToken string) (json.RawMessage, error) {
	endpoint := userInfoEndpoint(cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
