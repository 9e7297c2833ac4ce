package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenLength is the number of random bytes in an opaque token
const TokenLength = 32

// GenerateToken returns a cryptographically random, URL-safe opaque token
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
