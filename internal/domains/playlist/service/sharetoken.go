package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const shareTokenBytes = 16

// NewShareToken mints a high-entropy URL-safe capability token. The plaintext
// is returned to the caller exactly once; only its digest is ever persisted.
func NewShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashShareToken produces the salted digest stored in place of the token.
// HMAC keeps the digest deterministic (lookups go through an index on it)
// while the server-side salt prevents offline matching of leaked digests.
func HashShareToken(salt, token string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
