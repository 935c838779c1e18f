package accounts

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to every credential hash.
const BcryptCost = 10

// HashPassword will generate a salted password hash. Two calls on the same
// input produce different digests.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. Malformed digests report a mismatch, never a panic.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// covers bcrypt.ErrMismatchedHashAndPassword and malformed digests
		return ErrMismatchedHashAndPassword
	}
	return nil
}
