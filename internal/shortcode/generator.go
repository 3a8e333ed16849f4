// Package shortcode generates random short codes.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Alphabet is the 62-symbol alphanumeric alphabet codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultLength is the length of generated codes. 62^6 ≈ 5.7e10 codes.
	DefaultLength = 6
)

// Generator draws fixed-length codes uniformly from Alphabet.
type Generator struct {
	length int
}

// NewGenerator creates a Generator producing codes of DefaultLength.
func NewGenerator() *Generator {
	return &Generator{length: DefaultLength}
}

// Generate returns a new random code using crypto/rand.
func (g *Generator) Generate() (string, error) {
	b := make([]byte, g.length)
	max := big.NewInt(int64(len(Alphabet)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}

	return string(b), nil
}
