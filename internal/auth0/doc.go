// Package auth0 implements the Auth0 Authorization-Code-with-PKCE client
// session.
//
// The package is organized around a small set of collaborators:
//
//   - Session: the orchestrator and state machine. It owns the PKCE
//     verifier for the current authorization attempt, drives the browser
//     round trip, exchanges codes and refresh tokens, and manages the
//     credential lifecycle through a store.TokenStore.
//   - ExchangeClient: the HTTP client for the /oauth/token and /userinfo
//     endpoints.
//   - Authenticator: the external authorization browser capability. The
//     session treats it as opaque; cancel is a non-error outcome.
//
// # Flow
//
// SetUp stores the configuration and generates a fresh PKCE verifier.
// SignIn/SignUp build an authorize URL, hand it to the Authenticator,
// extract the authorization code from the callback URL, exchange it for
// tokens and persist them. GetAccessToken serves the stored token while it
// is current and otherwise performs a refresh exchange, deduplicated with
// singleflight so concurrent callers share one request. Access-token
// changes are multicast to subscribers over buffered channels with
// non-blocking delivery.
//
// # Error taxonomy
//
//   - *config.ConfigError: missing required configuration, surfaced before
//     any network call.
//   - *ExchangeError: token endpoint transport or non-2xx failure.
//   - *SignInError: wraps any failure during sign-in/sign-up; stored
//     credentials are cleared before it is returned.
//   - *LogoutError: authenticator failure during logout.
//   - *FetchError: non-200 from the user-info endpoint.
//
// LoggedIn is the single documented exception: it swallows errors from the
// access-token check and reports false.
package auth0
