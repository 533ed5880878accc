package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// SessionIDBytes is the entropy, in bytes, behind each session identifier.
const SessionIDBytes = 32

// GenerateSecureToken returns a base64 URL-safe random string using the
// specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateSessionID returns an opaque session identifier. The value carries
// no account information; it only serves as a lookup key.
func GenerateSessionID() (string, error) {
	return GenerateSecureToken(SessionIDBytes)
}

// HashToken calculates a SHA-256 hash of the provided value. Stores index
// remember tokens and throttle identifiers by this hash so raw values never
// land in persistence.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
