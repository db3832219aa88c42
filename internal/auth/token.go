package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewTokenValue generates a random 32 character alphanumeric token value.
func NewTokenValue() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	out := make([]byte, tokenLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("auth: generate token: %w", err)
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out), nil
}
