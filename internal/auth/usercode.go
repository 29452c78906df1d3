package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UserCodeLength is the number of characters in a user code.
const UserCodeLength = 6

const userCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUserCode returns a random code of UserCodeLength characters drawn
// from upper-case letters and digits. Uniqueness is enforced by the store.
func GenerateUserCode() (string, error) {
	max := big.NewInt(int64(len(userCodeAlphabet)))
	code := make([]byte, UserCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate user code: %w", err)
		}
		code[i] = userCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
