// Package security implements the credential store: bcrypt password
// hashing over a 72-byte prefix and HS256 session tokens.
package security

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// TruncatePassword returns the UTF-8 bytes of p cut to at most 72 bytes.
// A multi-byte rune split by the cut is dropped entirely, so the result is
// always valid UTF-8 when p is.
func TruncatePassword(p string) []byte {
	b := []byte(p)
	if len(b) <= MaxPasswordBytes {
		return b
	}
	cut := MaxPasswordBytes
	// b[cut] is the first byte past the limit; if it continues a rune, that
	// rune started inside the prefix and must go.
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}

// HashPassword returns the bcrypt digest of the truncated password.
func HashPassword(p string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(TruncatePassword(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether p matches digest. Malformed digests and
// any other failure yield false.
func VerifyPassword(p, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), TruncatePassword(p)) == nil
}
