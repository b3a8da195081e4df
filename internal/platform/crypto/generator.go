// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TemporaryPasswordAlphabet is the character set used for generated passwords.
const TemporaryPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

// TemporaryPasswordLength is the length of passwords handed out to
// administratively created professionals.
const TemporaryPasswordLength = 12

// GenerateTemporaryPassword returns n characters drawn uniformly from
// TemporaryPasswordAlphabet using a cryptographically secure source.
func GenerateTemporaryPassword(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", n)
	}
	max := big.NewInt(int64(len(TemporaryPasswordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random data: %w", err)
		}
		out[i] = TemporaryPasswordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
