package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Verification errors. Expired is surfaced distinctly so users can tell a
// stale session from a broken one; everything else collapses to invalid.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// allowedAlgs is the explicit allow-list checked before key selection.
// Branching on the token's declared alg without this check is a known
// credential-verification vulnerability class.
var allowedAlgs = []string{"HS256", "HS384", "HS512", "RS256", "ES256"}

// Claims carries the identity claims this service consumes.
type Claims struct {
	Role         string                 `json:"role"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// MetaString returns a string value from user_metadata, or "".
func (c *Claims) MetaString(key string) string {
	if c.UserMetadata == nil {
		return ""
	}
	if v, ok := c.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

// EmailAddress prefers the top-level email claim, falling back to metadata.
func (c *Claims) EmailAddress() string {
	if c.Email != "" {
		return c.Email
	}
	return c.MetaString("email")
}

// Verifier validates bearer tokens. The HS* family verifies against a shared
// secret; RS256/ES256 resolve their key from a JWKS endpoint, fetched and
// cached by key id.
type Verifier struct {
	secret string
	jwks   keyfunc.Keyfunc
}

// NewVerifier builds a Verifier. jwksURL may be empty, in which case
// asymmetric tokens are rejected.
func NewVerifier(secret, jwksURL string) (*Verifier, error) {
	v := &Verifier{secret: secret}

	if jwksURL != "" {
		jwks, err := keyfunc.NewDefault([]string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize jwks client: %w", err)
		}
		v.jwks = jwks
	}

	return v, nil
}

// Verify parses and verifies a raw bearer token and returns its claims.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(raw, claims, v.selectKey, jwt.WithValidMethods(allowedAlgs))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Role == "" {
		claims.Role = "authenticated"
	}

	return claims, nil
}

// selectKey dispatches on the declared algorithm after it passed the
// allow-list enforced by WithValidMethods.
func (v *Verifier) selectKey(t *jwt.Token) (interface{}, error) {
	alg := t.Method.Alg()

	if strings.HasPrefix(alg, "HS") {
		return []byte(v.secret), nil
	}

	if v.jwks == nil {
		return nil, fmt.Errorf("no key set configured for algorithm %q", alg)
	}
	return v.jwks.Keyfunc(t)
}
