// Package pkce implements PKCE (Proof Key for Code Exchange) verifier and
// challenge generation for OAuth 2.0 public clients.
//
// The code verifier is a random alphanumeric string between 43 and 128
// characters. The code challenge is the S256 (SHA256) hash of the verifier,
// base64url-encoded without padding.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// MinVerifierLength is the minimum code verifier length allowed by RFC 7636.
	MinVerifierLength = 43

	// MaxVerifierLength is the maximum code verifier length allowed by RFC 7636.
	MaxVerifierLength = 128

	// DefaultVerifierLength is used when no length (or an out-of-range length)
	// is requested. Maximum length gives maximum entropy.
	DefaultVerifierLength = 128

	// Method is the only challenge method supported. Plain is not allowed
	// for OAuth 2.1 public clients.
	Method = "S256"
)

// verifierAlphabet is the character set for code verifiers.
// RFC 7636 allows additional unreserved characters, but alphanumerics keep
// the verifier safe in every transport the flow touches.
const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Pair holds a generated code verifier together with its derived challenge.
type Pair struct {
	// Verifier is the client-held secret. It is used once in the token
	// exchange and must never be transmitted in the authorization request.
	Verifier string

	// Challenge is the S256 hash of the verifier (base64url, no padding).
	// This is the value sent in the authorization request.
	Challenge string

	// Method is always "S256".
	Method string
}

// GenerateVerifier generates a random code verifier of the requested length.
// Lengths outside [43, 128] fall back to the default of 128. Sampling is
// uniform over the alphanumeric alphabet and uses crypto/rand.
func GenerateVerifier(size int) (string, error) {
	if size < MinVerifierLength || size > MaxVerifierLength {
		size = DefaultVerifierLength
	}

	// Rejection sampling keeps the distribution uniform: 248 is the largest
	// multiple of len(verifierAlphabet) that fits in a byte, so bytes >= 248
	// are discarded instead of introducing modulo bias.
	const limit = 248

	out := make([]byte, 0, size)
	buf := make([]byte, size)
	for len(out) < size {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes for PKCE verifier: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, verifierAlphabet[int(b)%len(verifierAlphabet)])
			if len(out) == size {
				break
			}
		}
	}

	return string(out), nil
}

// Challenge derives the S256 code challenge for a verifier.
// The result is base64url-encoded without padding, so it contains no '+',
// '/' or '=' characters. Deterministic and side-effect free.
func Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// Generate generates a verifier of the requested length and derives its
// challenge. See GenerateVerifier for the length policy.
func Generate(size int) (*Pair, error) {
	verifier, err := GenerateVerifier(size)
	if err != nil {
		return nil, err
	}

	return &Pair{
		Verifier:  verifier,
		Challenge: Challenge(verifier),
		Method:    Method,
	}, nil
}
