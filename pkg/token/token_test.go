package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signHS256(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, "")
	require.NoError(t, err)
	return v
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier(t)

	raw := signHS256(t, &Claims{
		Role:  "authenticated",
		Email: "alex@example.com",
		UserMetadata: map[string]interface{}{
			"full_name": "Alex Example",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "0c6f9f6e-0f57-4f4a-9c2f-0f6c0a2b6e51",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "0c6f9f6e-0f57-4f4a-9c2f-0f6c0a2b6e51", claims.Subject)
	assert.Equal(t, "authenticated", claims.Role)
	assert.Equal(t, "alex@example.com", claims.EmailAddress())
	assert.Equal(t, "Alex Example", claims.MetaString("full_name"))
}

func TestVerifyDefaultsRole(t *testing.T) {
	v := newTestVerifier(t)

	raw := signHS256(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := newTestVerifier(t)

	raw := signHS256(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	v := newTestVerifier(t)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := newTestVerifier(t)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAsymmetricWithoutKeySet(t *testing.T) {
	v := newTestVerifier(t)

	// Declared RS256 but no JWKS configured: verification must fail closed.
	raw := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ1c2VyLTEifQ.invalid"

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
