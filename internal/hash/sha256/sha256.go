// Package sha256 fingerprints composed email bodies.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher implements menu.Hasher. Digests are lowercase hex.
type Hasher struct{}

// New returns a Hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex SHA-256 digest of data.
func (*Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
