// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateRandomString returns a random alphanumeric string. Used for the
// generated password of a seeded admin account.
func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}
