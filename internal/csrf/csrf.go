// Package csrf implements the double-submit token scheme: a per-session
// secret lives in an httpOnly cookie, and mutating requests must echo a
// token derived from that secret in the X-CSRF-Token header.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const (
	// CookieName is the httpOnly cookie holding the secret.
	CookieName = "_csrf"
	// HeaderName is the request header carrying the derived token.
	HeaderName = "X-CSRF-Token"

	secretLength = 24
	saltLength   = 8
)

// GenerateSecret returns a new random secret for the cookie.
func GenerateSecret() (string, error) {
	return randomString(secretLength)
}

// CreateToken derives a token from the secret. Each call salts the derivation,
// so tokens from consecutive handshakes differ even for the same secret.
func CreateToken(secret string) (string, error) {
	salt, err := randomString(saltLength)
	if err != nil {
		return "", err
	}
	return salt + "." + sign(secret, salt), nil
}

// Verify reports whether token was derived from secret. Comparison is
// constant-time.
func Verify(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	salt, mac, ok := strings.Cut(token, ".")
	if !ok || salt == "" {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(sign(secret, salt)))
}

func sign(secret, salt string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
