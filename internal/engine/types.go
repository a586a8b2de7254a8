package engine

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Seeds is the pair of inputs every generated game is derived from.
type Seeds struct {
	Server string // ASCII; do NOT hex-decode
	Client string
}

// RandomSeeds returns a fresh 64-hex-char server seed and a uuid client seed.
func RandomSeeds() (Seeds, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return Seeds{}, fmt.Errorf("generate server seed: %w", err)
	}
	return Seeds{
		Server: hex.EncodeToString(raw[:]),
		Client: uuid.NewString(),
	}, nil
}

// HashServerSeed returns the hex SHA-256 of the server seed. Publishing the
// hash before play commits to the seed without revealing it.
func HashServerSeed(server string) string {
	h := sha256.Sum256([]byte(server))
	return hex.EncodeToString(h[:])
}
