package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// NewResetToken returns a random hex token and its SHA-256 digest.
// Only the digest may be stored.
func NewResetToken() (plain string, digest string, err error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, DigestToken(plain), nil
}

// DigestToken hashes a high-entropy token for lookup. No salt is needed.
func DigestToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
