package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when there is no stored hash, so a failed
// lookup costs the same as a wrong PIN.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

// HashPIN creates a bcrypt hash of a tasting PIN.
func HashPIN(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPIN checks a plaintext PIN against the stored bcrypt hash.
func VerifyPIN(hashedPIN, providedPIN string) error {
	if hashedPIN == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(providedPIN))
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPIN), []byte(providedPIN))
}
