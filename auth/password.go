package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor; raising it slows brute-force attempts and every login
// equally.
const hashCost = 10

// HashPassword derives a salted bcrypt hash from a plaintext password.
// The plaintext is never stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. Comparison timing is a property of bcrypt itself.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
