// Package masking turns raw personal identifiers into salted one-way tokens.
package masking

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// PlaceholderSalt is used when no salt is configured. It is public
// knowledge, so tokens masked with it offer no protection.
const PlaceholderSalt = "changeme"

// TokenLength is the length of every masked token (hex SHA-256).
const TokenLength = sha256.Size * 2

// ErrPlaceholderSalt reports a missing or placeholder salt.
var ErrPlaceholderSalt = errors.New("masking: salt is unset or the placeholder value")

// Mask returns hex(sha256(salt || raw)). There is no inverse.
func Mask(raw, salt string) string {
	sum := sha256.Sum256([]byte(salt + raw))
	return hex.EncodeToString(sum[:])
}

// CheckSalt returns ErrPlaceholderSalt when salt must not be trusted
// outside tests.
func CheckSalt(salt string) error {
	if salt == "" || salt == PlaceholderSalt {
		return ErrPlaceholderSalt
	}
	return nil
}

// OrPlaceholder returns salt, or PlaceholderSalt when salt is empty.
func OrPlaceholder(salt string) string {
	if salt == "" {
		return PlaceholderSalt
	}
	return salt
}
