// Package password provides one-way hashing and verification of user
// credentials backed by bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the salted bcrypt digest of plaintext at the default cost.
// This is the canonical form in which new passwords are stored.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. The comparison is
// constant-time inside bcrypt; any mismatch or malformed digest yields
// false, never an error.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
