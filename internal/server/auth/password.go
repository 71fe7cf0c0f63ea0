// Package auth implements account credential handling: bcrypt password
// hashing, JWT issuance/verification, and bearer-header parsing. It deals
// with account credentials only, never with vault secrets or master keys.
package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost bounds offline guessing against a leaked hash.
const BcryptCost = 12

// HashPassword returns a salted bcrypt hash of the account password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. bcrypt's
// comparison is constant-structure, so there is no early-exit timing leak.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
