package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Hash password hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return compareHash([]byte(hash), []byte(plain))
}

// swapped in tests
var compareHash = bcrypt.CompareHashAndPassword

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare runs a bcrypt comparison that always fails, at the same cost
// as a real one. Used when there is no stored hash to compare against.
func BurnCompare(plain string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})

	_ = compareHash(dummyHash, []byte(plain))
}
