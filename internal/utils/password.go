package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds enforced before hashing
const (
	PasswordMinLength = 8
	PasswordMaxLength = 100
)

// digestPassword pre-hashes the password with SHA-256 so any password up to
// PasswordMaxLength fits under bcrypt's 72-byte input limit. The digest is
// base64-encoded to keep bcrypt's input free of NUL bytes.
func digestPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword hashes a password using bcrypt with a per-call random salt.
// The cost factor makes hashing intentionally slow to resist brute force.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return "", fmt.Errorf("password must be between %d and %d characters", PasswordMinLength, PasswordMaxLength)
	}
	bytes, err := bcrypt.GenerateFromPassword(digestPassword(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a hash. Any mismatch, including
// a malformed stored hash, is a plain verification failure.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), digestPassword(password))
	return err == nil
}
