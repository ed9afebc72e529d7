package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns a cryptographically strong random urlsafe token of
// nbytes of entropy. These opaque tokens gate single-use state transitions:
// account activation, password reset, email migration.
func GenerateToken(nbytes int) (string, error) {
	buf := make([]byte, nbytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
