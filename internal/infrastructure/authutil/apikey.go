// Package authutil hashes the static API keys the REST layer's
// authMiddleware checks incoming requests against, the same bcrypt
// pairing the ecosystem uses alongside JWT bearer auth for anything
// that isn't a short-lived token.
package authutil

import "golang.org/x/crypto/bcrypt"

// HashAPIKey returns a bcrypt hash of key, suitable for storing instead
// of the plaintext key.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyAPIKey reports whether key matches hash, as produced by
// HashAPIKey.
func VerifyAPIKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
