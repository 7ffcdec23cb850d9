// Package credentials hashes and verifies user passwords for the login and
// registration flows that trigger session rotation.
package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var (
	// ErrPasswordTooShort is returned when the password fails the length policy.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrPasswordMismatch is returned when verification fails. It deliberately
	// carries no detail about why.
	ErrPasswordMismatch = errors.New("password mismatch")
)

// HashPassword hashes a plaintext password using bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
