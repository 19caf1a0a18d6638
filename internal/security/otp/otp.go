// Package otp generates the short numeric codes used for email verification.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Digits is the length of a generated code.
const Digits = 6

// NewCode returns a random, zero-padded numeric code.
func NewCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < Digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n), nil
}

// Equal compares a submitted code against the stored one in constant time.
func Equal(submitted, stored string) bool {
	if len(submitted) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
